package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AlphaSession is one session of an Alpha Progression CSV export.
type AlphaSession struct {
	Name      string
	Date      time.Time
	Duration  string // as exported, e.g. "1:02 hr"
	Exercises []AlphaExercise
}

// AlphaExercise is a single exercise within a session.
type AlphaExercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []AlphaSet
}

// AlphaSet is a working or warmup set.
type AlphaSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}

// DurationMinutes converts the exported "H:MM hr" (or "MM min") duration to minutes.
func (s AlphaSession) DurationMinutes() (int, error) {
	d := strings.TrimSpace(s.Duration)
	switch {
	case strings.HasSuffix(d, "hr"):
		d = strings.TrimSpace(strings.TrimSuffix(d, "hr"))
		h, m, ok := strings.Cut(d, ":")
		if !ok {
			return 0, fmt.Errorf("duration %q: missing minutes", s.Duration)
		}
		hours, err := strconv.Atoi(h)
		if err != nil {
			return 0, fmt.Errorf("duration %q: %w", s.Duration, err)
		}
		mins, err := strconv.Atoi(m)
		if err != nil {
			return 0, fmt.Errorf("duration %q: %w", s.Duration, err)
		}
		return hours*60 + mins, nil
	case strings.HasSuffix(d, "min"):
		mins, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(d, "min")))
		if err != nil {
			return 0, fmt.Errorf("duration %q: %w", s.Duration, err)
		}
		return mins, nil
	}
	return 0, fmt.Errorf("duration %q: unknown format", s.Duration)
}

// WorkingSets returns the non-warmup sets in export order.
func (e AlphaExercise) WorkingSets() []AlphaSet {
	var sets []AlphaSet
	for _, s := range e.Sets {
		if !s.IsWarmup {
			sets = append(sets, s)
		}
	}
	return sets
}
