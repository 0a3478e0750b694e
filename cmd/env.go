package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog"

	"github.com/Tiliavir/memex/internal/config"
	"github.com/Tiliavir/memex/internal/logger"
	"github.com/Tiliavir/memex/internal/memex"
	"github.com/Tiliavir/memex/internal/model"
	"github.com/Tiliavir/memex/internal/storage"
)

// session bundles what most commands need.
type session struct {
	cfg    config.Config
	log    zerolog.Logger
	engine *memex.Engine
}

// mustConfig loads the configuration or exits with status 2.
func mustConfig() (config.Config, zerolog.Logger) {
	log := logger.New(os.Stderr, verbose)
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	return cfg, log
}

// mustOpen opens the log engine or exits with status 2.
func mustOpen() *session {
	cfg, log := mustConfig()
	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	engine, err := memex.Open(cfg.LogFile,
		[]storage.Option{storage.WithAtomicWrites(cfg.Atomic()), storage.WithLogger(log)},
		memex.WithLocation(loc),
		memex.WithLogger(log),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return &session{cfg: cfg, log: log, engine: engine}
}

func (s *session) close() {
	if err := s.engine.Close(); err != nil {
		s.log.Warn().Err(err).Msg("closing log")
	}
}

// exitOnErr prints err and exits with status 2 when err is a storage
// failure, 1 otherwise.
func exitOnErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, storage.ErrStorage) {
		os.Exit(2)
	}
	os.Exit(1)
}

// resolveRef maps a reference to an entry. References are 1-based positions
// in chronological order as printed by `memex list`, optionally prefixed
// with '#', or "last". Negative positions count from the end.
func resolveRef(entries []model.Entry, ref string) (model.Entry, int, error) {
	if len(entries) == 0 {
		return model.Entry{}, 0, errors.New("the log is empty")
	}
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if ref == "last" {
		return entries[len(entries)-1], len(entries), nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return model.Entry{}, 0, fmt.Errorf("invalid entry reference %q: use a number from 'memex list'", ref)
	}
	if n < 0 {
		n = len(entries) + n + 1
	}
	if n < 1 || n > len(entries) {
		return model.Entry{}, 0, fmt.Errorf("entry %s out of range (1-%d)", ref, len(entries))
	}
	return entries[n-1], n, nil
}

// parseWhen accepts RFC 3339, "2006-01-02 15:04" or "15:04". The last form
// keeps the date of base.
func parseWhen(value string, base time.Time, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", value, loc); err == nil {
		b := base.In(loc)
		return time.Date(b.Year(), b.Month(), b.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339, \"2006-01-02 15:04\" or \"15:04\"", value)
}

// confirm asks a yes/no question unless assumeYes is set.
func confirm(label string, assumeYes bool) bool {
	if assumeYes {
		return true
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return false
	}
	return true
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
