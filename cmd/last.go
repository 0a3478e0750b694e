package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/memex/internal/codec"
	"github.com/Tiliavir/memex/internal/timecalc"
)

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the most recent message",
	Args:  cobra.NoArgs,
	RunE:  runLast,
}

func runLast(cmd *cobra.Command, args []string) error {
	s := mustOpen()
	defer s.close()

	id, ok := s.engine.LastEntryID()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No messages yet.")
		return nil
	}
	e, err := s.engine.Lookup(id)
	if err != nil {
		return err
	}

	ago := int64(time.Since(e.Time).Seconds())
	if ago < 0 {
		ago = 0
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "#%d  %s\n", s.engine.Len(), codec.TextAndComment(e))
	fmt.Fprintf(out, "  At: %s %s (%s ago)\n", e.Time.Format("2006-01-02"), timecalc.Clock(e.Time), timecalc.FormatDuration(ago))
	return nil
}
