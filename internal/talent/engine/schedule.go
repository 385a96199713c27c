package engine

import "slices"

// DefaultBudget is the number of talent points available at the level cap
// of DefaultSchedule.
const DefaultBudget = 61

// Schedule maps character levels to the talent points granted at each level.
type Schedule struct {
	// FirstLevel is the first level granting a point.
	FirstLevel int
	// MaxLevel is the highest level the schedule covers.
	MaxLevel int
	// BonusLevels grant one extra point on top of the regular one.
	BonusLevels []int
}

// DefaultSchedule grants one point per level from 10 and a bonus point at
// every fifth level from 14 to 54, plus level 60.
var DefaultSchedule = Schedule{
	FirstLevel:  10,
	MaxLevel:    100,
	BonusLevels: []int{14, 19, 24, 29, 34, 39, 44, 49, 54, 60},
}

// PointsAt returns the points granted at exactly this level.
func (s Schedule) PointsAt(level int) int {
	if level < 1 || level > s.MaxLevel {
		return 0
	}
	points := 0
	if level >= s.FirstLevel {
		points++
	}
	if slices.Contains(s.BonusLevels, level) {
		points++
	}
	return points
}

// CumulativeByLevel returns the running totals indexed by level; index 0 is
// unused and always zero.
func (s Schedule) CumulativeByLevel() []int {
	out := make([]int, s.MaxLevel+1)
	total := 0
	for level := 1; level <= s.MaxLevel; level++ {
		total += s.PointsAt(level)
		out[level] = total
	}
	return out
}

// LevelFor returns the lowest level, starting at FirstLevel, whose
// cumulative points cover spent. Spends beyond the schedule report MaxLevel.
func (s Schedule) LevelFor(spent int) int {
	cumulative := s.CumulativeByLevel()
	for level := max(s.FirstLevel, 0); level <= s.MaxLevel; level++ {
		if cumulative[level] >= spent {
			return level
		}
	}
	return s.MaxLevel
}
