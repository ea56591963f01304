package engine

import "time"

// Leveling and gravity constants. The level multiplies clear scores and
// shortens the fall interval; both curves are exact contracts.
const (
	MaxLevel     = 20
	LinesPerLvl  = 10
	InitialFall  = 1000 * time.Millisecond
	FallStep     = 70 * time.Millisecond
	MinFall      = 60 * time.Millisecond
	comboBonus   = 50
	hardDropRate = 2 // points per row of hard-drop distance
)

// baseScores is the base score for clearing 1/2/3/4 rows at once, indexed by
// row count.
var baseScores = [5]int{0, 100, 300, 500, 800}

// Level maps the total lines cleared to the current level. Monotonic,
// capped at MaxLevel.
func Level(totalLines int) int {
	lvl := totalLines/LinesPerLvl + 1
	if lvl > MaxLevel {
		return MaxLevel
	}
	return lvl
}

// FallInterval returns the gravity cadence for a level. The engine owns no
// clock; the host calls Tick once per interval while the game is playing.
func FallInterval(level int) time.Duration {
	interval := InitialFall - time.Duration(level-1)*FallStep
	if interval < MinFall {
		return MinFall
	}
	return interval
}

// ClearScore returns the score delta for a lock clearing `rows` rows at the
// given level with the given combo counter (after its increment). The combo
// bonus applies only once a streak is running (combo > 0).
func ClearScore(rows, combo, level int) int {
	if rows < 0 || rows >= len(baseScores) {
		return 0
	}
	score := baseScores[rows] * level
	if combo > 0 {
		score += comboBonus * combo
	}
	return score
}

// HardDropBonus returns the score bonus for a hard drop of the given
// distance.
func HardDropBonus(distance int) int {
	return hardDropRate * distance
}
