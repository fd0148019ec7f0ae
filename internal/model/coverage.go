package model

import "fmt"

// Coverage is an exact covered/missed pair. The zero value is the identity
// of Add and reports IsSet() == false.
type Coverage struct {
	covered int
	missed  int
}

// NewCoverage builds a coverage pair; negative counts are clamped to zero.
func NewCoverage(covered, missed int) Coverage {
	return Coverage{covered: max(covered, 0), missed: max(missed, 0)}
}

var (
	coveredNode = NewCoverage(1, 0)
	missedNode  = NewCoverage(0, 1)
)

func (c Coverage) Covered() int { return c.covered }
func (c Coverage) Missed() int  { return c.missed }
func (c Coverage) Total() int   { return c.covered + c.missed }

// IsSet reports whether the pair holds any data.
func (c Coverage) IsSet() bool {
	return c.Total() > 0
}

func (c Coverage) Add(other Coverage) Coverage {
	return Coverage{covered: c.covered + other.covered, missed: c.missed + other.missed}
}

// Percentage returns covered/total as an exact fraction, unset if total is 0.
func (c Coverage) Percentage() Percentage {
	if !c.IsSet() {
		return Percentage{}
	}
	return newPercentage(int64(c.covered), int64(c.Total()))
}

func (c Coverage) String() string {
	if !c.IsSet() {
		return "-"
	}
	return fmt.Sprintf("%s (%d/%d)", c.Percentage(), c.covered, c.Total())
}
