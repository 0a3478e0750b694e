package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/memex/internal/codec"
	"github.com/Tiliavir/memex/internal/timecalc"
)

var addAt string

var addCmd = &cobra.Command{
	Use:   "add <message...>",
	Short: "Log a message; text after the last '#' becomes its comment",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", `Timestamp instead of now (RFC 3339, "2006-01-02 15:04" or "15:04")`)
}

func runAdd(cmd *cobra.Command, args []string) error {
	s := mustOpen()
	defer s.close()

	at := time.Now()
	if addAt != "" {
		var err error
		at, err = parseWhen(addAt, at, s.engine.Location())
		if err != nil {
			return err
		}
	}

	added, err := s.engine.AddAt(strings.Join(args, " "), at)
	exitOnErr(err)
	if added == nil {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged %q at %s\n", codec.TextAndComment(*added), timecalc.Clock(added.Time))
	return nil
}
