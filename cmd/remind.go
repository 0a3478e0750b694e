package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gosuri/uitable"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/memex/internal/codec"
	"github.com/Tiliavir/memex/internal/memex"
	"github.com/Tiliavir/memex/internal/model"
	"github.com/Tiliavir/memex/internal/reminder"
	"github.com/Tiliavir/memex/internal/timecalc"
	"github.com/Tiliavir/memex/internal/vocab"
)

var (
	remindTitle string
	remindEvery string
	remindAt    string
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Reminders that ask for a message and log the answer",
}

var remindAddCmd = &cobra.Command{
	Use:   "add <verb>",
	Short: "Add a reminder, either --every <age> or --at HH:MM",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindAdd,
}

var remindListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List reminders",
	Args:    cobra.NoArgs,
	RunE:    runRemindList,
}

var remindRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindRm,
}

var remindRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run reminders in the foreground, logging every answer",
	Args:  cobra.NoArgs,
	RunE:  runRemindRun,
}

func init() {
	remindAddCmd.Flags().StringVar(&remindTitle, "title", "", "Question to show (default: the verb)")
	remindAddCmd.Flags().StringVar(&remindEvery, "every", "", "Repeat interval, e.g. 2h or 1d")
	remindAddCmd.Flags().StringVar(&remindAt, "at", "", "Daily time of day, HH:MM")
	remindAddCmd.MarkFlagsMutuallyExclusive("every", "at")
	remindAddCmd.MarkFlagsOneRequired("every", "at")

	remindCmd.AddCommand(remindAddCmd)
	remindCmd.AddCommand(remindListCmd)
	remindCmd.AddCommand(remindRmCmd)
	remindCmd.AddCommand(remindRunCmd)
}

// buildReminder turns the add flags into a reminder for verb.
func buildReminder(verb, title, every, at string) (model.Reminder, error) {
	r := model.Reminder{Verb: verb, Title: title}
	if r.Title == "" {
		r.Title = verb
	}
	switch {
	case every != "":
		d, err := timecalc.ParseAge(every)
		if err != nil {
			return model.Reminder{}, fmt.Errorf("invalid --every: %w", err)
		}
		r.Kind = model.ReminderInterval
		r.Interval = d
	default:
		var h, m int
		if _, err := fmt.Sscanf(at, "%d:%d", &h, &m); err != nil {
			return model.Reminder{}, fmt.Errorf("invalid --at %q: use HH:MM", at)
		}
		r.Kind = model.ReminderDaily
		r.Hour, r.Minute = h, m
	}
	return r, vocab.Validate(r)
}

func describeSchedule(r model.Reminder) string {
	if r.Kind == model.ReminderDaily {
		return fmt.Sprintf("daily at %02d:%02d", r.Hour, r.Minute)
	}
	return "every " + timecalc.FormatAge(r.Interval)
}

func runRemindAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	r, err := buildReminder(args[0], remindTitle, remindEvery, remindAt)
	if err != nil {
		return err
	}

	store := mustVocab(ctx)
	defer store.Close()

	verbs, err := store.ListVerbs(ctx)
	if err != nil {
		return err
	}
	if _, err := matchVerb(verbs, r.Verb); err != nil {
		if _, err := store.AddVerb(ctx, r.Verb); err != nil {
			return err
		}
	}

	r, err = store.AddReminder(ctx, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added reminder %s: %q %s\n", shortID(r.ID), r.Title, describeSchedule(r))
	return nil
}

func runRemindList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := mustVocab(ctx)
	defer store.Close()

	reminders, err := store.ListReminders(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(reminders) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reminders yet.")
		return nil
	}
	table := uitable.New()
	table.AddRow("ID", "VERB", "TITLE", "SCHEDULE")
	for _, r := range reminders {
		table.AddRow(shortID(r.ID), r.Verb, r.Title, describeSchedule(r))
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

func runRemindRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := mustVocab(ctx)
	defer store.Close()

	reminders, err := store.ListReminders(ctx)
	if err != nil {
		return err
	}
	r, err := matchReminder(reminders, args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteReminder(ctx, r.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed reminder %s (%s)\n", shortID(r.ID), r.Title)
	return nil
}

// terminalPrompter asks for reminder answers on the terminal.
type terminalPrompter struct{}

func (terminalPrompter) Prompt(_ context.Context, r model.Reminder) (string, error) {
	fmt.Print("\a")
	prompt := promptui.Prompt{Label: r.Title}
	return prompt.Run()
}

func runRemindRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := mustVocab(ctx)
	reminders, err := store.ListReminders(ctx)
	_ = store.Close()
	if err != nil {
		return err
	}
	if len(reminders) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reminders configured; add one with 'memex remind add'.")
		return nil
	}

	s := mustOpen()
	defer s.close()

	sched := reminder.NewScheduler(reminders, terminalPrompter{},
		reminder.WithLocation(s.engine.Location()),
		reminder.WithLogger(s.log),
	)
	for _, r := range reminders {
		fmt.Fprintf(cmd.OutOrStdout(), "Waiting for %q, %s\n", r.Title, describeSchedule(r))
	}

	errc := make(chan error, 1)
	go func() { errc <- sched.Run(ctx) }()

	for ev := range sched.Events() {
		added, err := logAnswer(s.engine, ev.Message())
		exitOnErr(err)
		if added != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %q\n", codec.TextAndComment(*added))
		}
	}
	return <-errc
}

// logAnswer re-reads the log before adding msg, so messages written by other
// memex commands while remind run was waiting are kept.
func logAnswer(engine *memex.Engine, msg string) (*model.Entry, error) {
	if err := engine.Reload(); err != nil {
		return nil, err
	}
	return engine.Add(msg)
}
