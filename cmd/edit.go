package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/memex/internal/codec"
	"github.com/Tiliavir/memex/internal/memex"
)

var (
	editText string
	editTime string
)

var editCmd = &cobra.Command{
	Use:   "edit <ref>",
	Short: "Edit a message's text or time",
	Long: `Edit the message at <ref> (its number in 'memex list', or "last").
Without flags the current text is printed in a form ready to be passed to --text.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editText, "text", "", "New text; text after the last '#' becomes the comment")
	editCmd.Flags().StringVar(&editTime, "time", "", `New timestamp (RFC 3339, "2006-01-02 15:04" or "15:04")`)
}

func runEdit(cmd *cobra.Command, args []string) error {
	s := mustOpen()
	defer s.close()

	target, ref, err := resolveRef(s.engine.Entries(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if editText == "" && editTime == "" {
		fmt.Fprintln(out, codec.TextAndComment(target))
		return nil
	}

	if editText != "" {
		if _, _, err := memex.ParseMessage(editText); errors.Is(err, memex.ErrEmptyMessage) {
			return fmt.Errorf("--text needs some text before the '#'")
		}
		exitOnErr(s.engine.EditText(target.ID, editText))
	}
	if editTime != "" {
		t, err := parseWhen(editTime, target.Time, s.engine.Location())
		if err != nil {
			return err
		}
		exitOnErr(s.engine.EditTime(target.ID, t))
	}

	edited, err := s.engine.Lookup(target.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Edited #%d: %s on %s\n", ref, codec.TextAndComment(edited), edited.Time.Format(codec.TimeLayout))
	return nil
}
