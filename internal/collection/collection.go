// Package collection groups log entries by calendar day.
package collection

import (
	"sort"
	"time"

	"github.com/Tiliavir/memex/internal/model"
	"github.com/Tiliavir/memex/internal/timecalc"
)

// Regroup buckets entries by the start of their day in loc. Groups are
// ordered by day and entries within a group by time; equal times keep their
// input order. The input slice is not modified.
func Regroup(flat []model.Entry, loc *time.Location) []model.DayGroup {
	if loc == nil {
		loc = time.Local
	}
	sorted := make([]model.Entry, len(flat))
	copy(sorted, flat)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	groups := []model.DayGroup{}
	for _, e := range sorted {
		day := timecalc.StartOfDay(e.Time.In(loc))
		if n := len(groups); n > 0 && groups[n-1].Date.Equal(day) {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, model.DayGroup{Date: day, Entries: []model.Entry{e}})
	}
	return groups
}

// Flatten concatenates the entries of all groups in group order.
func Flatten(groups []model.DayGroup) []model.Entry {
	n := 0
	for _, g := range groups {
		n += len(g.Entries)
	}
	flat := make([]model.Entry, 0, n)
	for _, g := range groups {
		flat = append(flat, g.Entries...)
	}
	return flat
}

// Count returns the number of entries across all groups.
func Count(groups []model.DayGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Entries)
	}
	return n
}
