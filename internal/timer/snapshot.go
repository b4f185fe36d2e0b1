package timer

import (
	"fmt"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

// Snapshot is the observable state of a Session.
type Snapshot struct {
	Running       bool                     `json:"running"`
	Elapsed       int                      `json:"elapsed"` // seconds
	ElapsedText   string                   `json:"elapsed_text"`
	Resting       bool                     `json:"resting"`
	RestRemaining int                      `json:"rest_remaining"` // seconds
	RestText      string                   `json:"rest_text"`
	ExerciseID    string                   `json:"exercise_id,omitempty"`
	Sets          []models.WorkoutSet      `json:"sets"`
	ActiveSet     *int                     `json:"active_set,omitempty"`
	Exercises     []models.WorkoutExercise `json:"exercises"`
}

// FormatTime renders seconds as MM:SS. Minutes are not wrapped into hours.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := int(s.elapsedLocked() / time.Second)
	snap := Snapshot{
		Running:     s.running,
		Elapsed:     elapsed,
		ElapsedText: FormatTime(elapsed),
		Resting:     s.resting,
		ExerciseID:  s.exerciseID,
		Sets:        make([]models.WorkoutSet, len(s.sets)),
		Exercises:   cloneExercises(s.exercises),
	}
	for i, set := range s.sets {
		snap.Sets[i] = set.Clone()
	}
	if s.activeSet >= 0 {
		snap.ActiveSet = models.Ptr(s.activeSet)
	}
	if s.resting {
		left := s.restEnds.Sub(s.clock.Now())
		// rounded up to whole seconds
		snap.RestRemaining = max(0, int((left+time.Second-1)/time.Second))
	}
	snap.RestText = FormatTime(snap.RestRemaining)
	return snap
}
