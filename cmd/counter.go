package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/memex/internal/codec"
	"github.com/Tiliavir/memex/internal/timecalc"
)

var overCmd = &cobra.Command{
	Use:   "over [N]",
	Short: `Log "over N" (it's so over), N defaults to 1`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  counterRunner("over"),
}

var backCmd = &cobra.Command{
	Use:   "back [N]",
	Short: `Log "back N" (we're so back), N defaults to 1`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  counterRunner("back"),
}

func counterRunner(word string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		msg, err := counterMessage(word, args)
		if err != nil {
			return err
		}
		s := mustOpen()
		defer s.close()

		added, err := s.engine.Add(msg)
		exitOnErr(err)
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %q at %s\n", codec.TextAndComment(*added), timecalc.Clock(added.Time))
		return nil
	}
}

// counterMessage builds "<word> <n>" from the optional count argument.
func counterMessage(word string, args []string) (string, error) {
	n := 1
	if len(args) == 1 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return "", fmt.Errorf("count must be a positive number, got %q", args[0])
		}
	}
	return fmt.Sprintf("%s %d", word, n), nil
}
