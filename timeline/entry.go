package timeline

import (
	"math"

	"github.com/google/uuid"

	"splitflap/common"
)

// Entry is a target text shown on the board of a group starting at KeyTime.
type Entry struct {
	ID        string        `yaml:"id" json:"id"`
	GroupID   string        `yaml:"group" json:"group"`
	KeyTime   float64       `yaml:"time" json:"time"`
	Text      string        `yaml:"text" json:"text"`
	Formatted string        `yaml:"formatted" json:"formatted"`
	Policy    common.Policy `yaml:"policy" json:"policy"`
}

// EntryInput is what user provides when adding or updating an entry.
type EntryInput struct {
	KeyTime float64       `yaml:"time"`
	Text    string        `yaml:"text"`
	Policy  common.Policy `yaml:"policy"`
}

func validKeyTime(t float64) bool {
	return t >= 0 && !math.IsInf(t, 0) && !math.IsNaN(t)
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
