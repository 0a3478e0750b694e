package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Tiliavir/memex/internal/model"
	"github.com/Tiliavir/memex/internal/vocab"
)

// mustVocab opens the verb and reminder database or exits with status 2.
func mustVocab(ctx context.Context) *vocab.Store {
	cfg, _ := mustConfig()
	store, err := vocab.Open(ctx, cfg.DBFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return store
}

// matchVerb finds a verb by exact name or unique ID prefix.
func matchVerb(verbs []model.Verb, key string) (model.Verb, error) {
	var found []model.Verb
	for _, v := range verbs {
		if v.Verb == key {
			return v, nil
		}
		if strings.HasPrefix(v.ID, key) {
			found = append(found, v)
		}
	}
	return pickOne(found, key, "verb")
}

// matchReminder finds a reminder by unique ID prefix.
func matchReminder(reminders []model.Reminder, key string) (model.Reminder, error) {
	var found []model.Reminder
	for _, r := range reminders {
		if strings.HasPrefix(r.ID, key) {
			found = append(found, r)
		}
	}
	return pickOne(found, key, "reminder")
}

func pickOne[T any](found []T, key, kind string) (T, error) {
	var zero T
	switch len(found) {
	case 0:
		return zero, fmt.Errorf("no %s matches %q", kind, key)
	case 1:
		return found[0], nil
	default:
		return zero, fmt.Errorf("%q matches %d %ss, use a longer id", key, len(found), kind)
	}
}

// shortID is the display form of a record ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
