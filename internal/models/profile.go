package models

import "time"

// Gender of a user profile.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// Valid reports whether g is a known gender value.
func (g Gender) Valid() bool {
	return g == Male || g == Female || g == Other
}

// FitnessLevel is the self-reported training level of a user.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// Valid reports whether l is a known fitness level.
func (l FitnessLevel) Valid() bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

// Goal is a numeric target with current progress.
type Goal struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	TargetValue  float64    `json:"target_value"`
	CurrentValue float64    `json:"current_value"`
	Unit         string     `json:"unit"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Achieved     bool       `json:"achieved"`
}

// Progress returns current/target as a percentage. The result is not clamped and
// can exceed 100. A zero target yields 0.
func (g Goal) Progress() float64 {
	if g.TargetValue == 0 {
		return 0
	}
	return g.CurrentValue * 100 / g.TargetValue
}

// UserProfile holds the demographic data and goals of the single user.
type UserProfile struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Age          int          `json:"age"`
	Weight       float64      `json:"weight"` // kg
	Height       float64      `json:"height"` // cm
	Gender       Gender       `json:"gender"`
	FitnessLevel FitnessLevel `json:"fitness_level"`
	Goals        []Goal       `json:"goals"`
}

// Clone returns a deep copy of p.
func (p UserProfile) Clone() UserProfile {
	c := p
	if p.Goals != nil {
		c.Goals = make([]Goal, len(p.Goals))
		for i, g := range p.Goals {
			c.Goals[i] = g
			c.Goals[i].Deadline = clonePtr(g.Deadline)
		}
	}
	return c
}
