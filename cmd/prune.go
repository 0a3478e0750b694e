package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/memex/internal/timecalc"
)

var (
	pruneBefore    string
	pruneOlderThan string
	pruneAuto      bool
	pruneYes       bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all messages before a message or older than an age",
	Long: `Delete old messages. Exactly one of the selectors is required:

  --before <ref>      every message strictly earlier than <ref> (which is kept)
  --older-than <age>  every message older than <age>, e.g. 1w, 30d, 1w2d
  --auto              like --older-than with the configured retention`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().StringVar(&pruneBefore, "before", "", "Delete everything before this message")
	pruneCmd.Flags().StringVar(&pruneOlderThan, "older-than", "", "Delete everything older than this age")
	pruneCmd.Flags().BoolVar(&pruneAuto, "auto", false, "Use the retention from the config")
	pruneCmd.Flags().BoolVarP(&pruneYes, "yes", "y", false, "Do not ask for confirmation")
	pruneCmd.MarkFlagsMutuallyExclusive("before", "older-than", "auto")
	pruneCmd.MarkFlagsOneRequired("before", "older-than", "auto")
}

func runPrune(cmd *cobra.Command, args []string) error {
	s := mustOpen()
	defer s.close()
	out := cmd.OutOrStdout()

	if pruneBefore != "" {
		ref, n, err := resolveRef(s.engine.Entries(), pruneBefore)
		if err != nil {
			return err
		}
		count := s.engine.CountBefore(ref)
		if count == 0 {
			fmt.Fprintln(out, "Nothing to delete.")
			return nil
		}
		if !confirm(fmt.Sprintf("Delete all messages before #%d? This will delete %s", n, plural(count, "message", "messages")), pruneYes) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		exitOnErr(s.engine.DeleteAllBefore(ref))
		fmt.Fprintf(out, "Deleted %s.\n", plural(count, "message", "messages"))
		return nil
	}

	age, err := pruneAge(s)
	if err != nil {
		return err
	}
	count := s.engine.CountOlderThan(age)
	if count == 0 {
		fmt.Fprintln(out, "Nothing to delete.")
		return nil
	}
	if !confirm(fmt.Sprintf("Delete messages older than %s? This will delete %s", timecalc.FormatAge(age), plural(count, "message", "messages")), pruneYes) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	removed, err := s.engine.DeleteOlderThan(age)
	exitOnErr(err)
	fmt.Fprintf(out, "Deleted %s.\n", plural(removed, "message", "messages"))
	return nil
}

func pruneAge(s *session) (time.Duration, error) {
	if pruneOlderThan != "" {
		return timecalc.ParseAge(pruneOlderThan)
	}
	age, err := s.cfg.RetentionAge()
	if err != nil {
		return 0, err
	}
	if age == 0 {
		return 0, errors.New("no retention configured; set \"retention\" in the config or use --older-than")
	}
	return age, nil
}
