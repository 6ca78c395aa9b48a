package program

import (
	"fmt"
)

// Split names a weekly training split.
type Split string

const (
	SplitFullBody               Split = "full-body"
	SplitPushPullLegsUpper      Split = "push-pull-legs-upper"
	SplitUpperLower             Split = "upper-lower"
	SplitUpperLowerEmphasis     Split = "upper-lower-emphasis"
	SplitPushPullLegsUpperLower Split = "push-pull-legs-upper-lower"
	SplitPushPullLegsDouble     Split = "push-pull-legs-double"
)

// Supported days per week for split selection and for the synthesized fallback.
const (
	MinDaysPerWeek         = 2
	MaxDaysPerWeek         = 7
	MaxFallbackDaysPerWeek = 5
)

// splitRule is one row of the split decision table. A zero style matches any style.
type splitRule struct {
	minDays, maxDays int
	style            Style
	split            Split
}

// splitTable is evaluated top to bottom and the first matching row wins. After clamping, every day count in
// [MinDaysPerWeek, MaxDaysPerWeek] matches at least one row.
//
//nolint:gochecknoglobals // read-only decision table.
var splitTable = []splitRule{
	{minDays: 2, maxDays: 3, style: "", split: SplitFullBody},
	{minDays: 4, maxDays: 4, style: StylePushPullLegs, split: SplitPushPullLegsUpper},
	{minDays: 4, maxDays: 4, style: "", split: SplitUpperLower},
	{minDays: 5, maxDays: 5, style: StyleUpperLower, split: SplitUpperLowerEmphasis},
	{minDays: 5, maxDays: 5, style: "", split: SplitPushPullLegsUpperLower},
	{minDays: 6, maxDays: 7, style: "", split: SplitPushPullLegsDouble},
}

// clampDays clamps days into [lo, hi] and returns a deviation when the value changed.
func clampDays(days, lo, hi int, reason string) (int, *Deviation) {
	clamped := min(max(days, lo), hi)
	if clamped == days {
		return days, nil
	}
	return clamped, &Deviation{
		Field:     "daysPerWeek",
		Requested: days,
		Applied:   clamped,
		Reason:    reason,
	}
}

// SelectSplit maps days per week and an optional style to a split. daysPerWeek is clamped into
// [MinDaysPerWeek, MaxDaysPerWeek] first; the returned deviation is non-nil when clamping changed it.
func SelectSplit(daysPerWeek int, style Style) (Split, *Deviation) {
	days, deviation := clampDays(daysPerWeek, MinDaysPerWeek, MaxDaysPerWeek,
		fmt.Sprintf("split selection supports %d to %d days per week", MinDaysPerWeek, MaxDaysPerWeek))
	for _, rule := range splitTable {
		if days < rule.minDays || days > rule.maxDays {
			continue
		}
		if rule.style != "" && rule.style != style {
			continue
		}
		return rule.split, deviation
	}
	panic(fmt.Sprintf("split table has no row for %d days", days))
}

// SplitDescription is the human-readable meaning of each split, shared by the instruction and program text.
func SplitDescription(s Split) string {
	switch s {
	case SplitFullBody:
		return "full-body sessions that each train every major movement pattern"
	case SplitPushPullLegsUpper:
		return "push, pull and legs followed by an upper-body day"
	case SplitUpperLower:
		return "upper strength, lower quad-dominant, upper volume and lower hip-dominant sessions"
	case SplitUpperLowerEmphasis:
		return "an upper/lower rotation extended with a fifth upper-body emphasis day for shoulders and arms"
	case SplitPushPullLegsUpperLower:
		return "push, pull and legs followed by an upper and a lower day"
	case SplitPushPullLegsDouble:
		return "push, pull and legs twice a week with A and B variants of each day"
	}
	return string(s)
}
