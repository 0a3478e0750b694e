package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/memex/internal/model"
)

var tailDays int

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print recent messages and reprint whenever the log file changes",
	Args:  cobra.NoArgs,
	RunE:  runTail,
}

func init() {
	tailCmd.Flags().IntVar(&tailDays, "days", 1, "Number of days to show")
}

func runTail(cmd *cobra.Command, args []string) error {
	s := mustOpen()
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	show := func(groups []model.DayGroup) {
		fmt.Fprintf(out, "── %s ──\n", time.Now().Format("15:04:05"))
		printGroups(out, filterGroups(groups, nil, tailDays))
	}
	s.engine.Subscribe(show)
	show(s.engine.Groups())

	changes, err := s.engine.Watch(ctx)
	exitOnErr(err)
	for range changes {
		if err := s.engine.Reload(); err != nil {
			s.log.Error().Err(err).Msg("reloading log")
		}
	}
	return nil
}
