package models

import "time"

type CheatFlag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AttemptID uint      `gorm:"not null;index" json:"attempt_id"`
	Violation string    `gorm:"size:30;not null" json:"violation"`
	FlaggedAt time.Time `json:"flagged_at"`
}

const ViolationUnknown = "unknown"

var allowedViolations = map[string]bool{
	"tab_switch":        true,
	"window_blur":       true,
	"copy_attempt":      true,
	"right_click":       true,
	"keyboard_shortcut": true,
	"devtools":          true,
	"context_menu":      true,
	"auto_submit":       true,
}

// NormalizeViolation coerces anything outside the closed vocabulary to
// "unknown" rather than rejecting it.
func NormalizeViolation(kind string) string {
	if allowedViolations[kind] {
		return kind
	}
	return ViolationUnknown
}
