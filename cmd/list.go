package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/memex/internal/model"
	"github.com/Tiliavir/memex/internal/timecalc"
)

var (
	listDays  int
	listWeek  bool
	listToday bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List messages grouped by day",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().IntVar(&listDays, "days", 0, "Only show the last N days that have messages")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Only show this week's messages")
	listCmd.Flags().BoolVar(&listToday, "today", false, "Only show today's messages")
}

func runList(cmd *cobra.Command, args []string) error {
	s := mustOpen()
	defer s.close()

	now := time.Now().In(s.engine.Location())
	var keep func(day time.Time) bool
	switch {
	case listToday:
		keep = func(day time.Time) bool { return timecalc.SameDay(day, now) }
	case listWeek:
		monday, sunday := timecalc.WeekRange(now)
		keep = func(day time.Time) bool { return !day.Before(monday) && !day.After(sunday) }
	}

	groups := s.engine.Groups()
	printGroups(cmd.OutOrStdout(), filterGroups(groups, keep, listDays))
	return nil
}

// refGroup is a day group whose entries carry their position in the whole log.
type refGroup struct {
	model.DayGroup
	first int
}

// filterGroups keeps groups whose date passes keep (all when keep is nil)
// and, when days > 0, at most the last days groups.
func filterGroups(groups []model.DayGroup, keep func(day time.Time) bool, days int) []refGroup {
	out := make([]refGroup, 0, len(groups))
	ref := 1
	for _, g := range groups {
		if keep == nil || keep(g.Date) {
			out = append(out, refGroup{DayGroup: g, first: ref})
		}
		ref += len(g.Entries)
	}
	if days > 0 && len(out) > days {
		out = out[len(out)-days:]
	}
	return out
}

// printGroups prints each day heading followed by a table of its entries.
func printGroups(w io.Writer, groups []refGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No messages found.")
		return
	}

	heading := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)
	refColor := color.New(color.FgHiYellow)

	for _, g := range groups {
		_, _ = heading.Fprint(w, timecalc.DayHeading(g.Date))
		_, _ = faint.Fprintf(w, " - %s\n", plural(len(g.Entries), "message", "messages"))

		table := uitable.New()
		table.MaxColWidth = 72
		table.Wrap = true
		for i, e := range g.Entries {
			text := e.Text
			if e.Comment != nil {
				text += "  " + faint.Sprint(*e.Comment)
			}
			table.AddRow(refColor.Sprintf("#%d", g.first+i), timecalc.Clock(e.Time), text)
		}
		fmt.Fprintln(w, table)
		fmt.Fprintln(w)
	}
}
