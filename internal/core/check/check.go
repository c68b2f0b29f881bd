// Package check implements skill-check comparison helpers.
package check

// MeetsDifficulty returns true if total >= difficulty.
// This is the most common difficulty check in tabletop RPGs.
func MeetsDifficulty(total, difficulty int) bool {
	return total >= difficulty
}

// Margin calculates the margin of success or failure.
// Positive values indicate success, negative indicate failure.
func Margin(total, difficulty int) int {
	return total - difficulty
}

// Result represents the outcome of a difficulty check.
type Result struct {
	Success bool
	Margin  int
}

// Check performs a difficulty check and returns the result.
func Check(total, difficulty int) Result {
	return Result{
		Success: MeetsDifficulty(total, difficulty),
		Margin:  Margin(total, difficulty),
	}
}

// ContestResult reports which side of an opposed contest prevailed.
type ContestResult int

const (
	// ContestTie indicates equal totals; a tie-break rule decides.
	ContestTie ContestResult = iota
	// ContestActorWins indicates the acting side rolled higher.
	ContestActorWins
	// ContestTargetWins indicates the opposing side rolled higher.
	ContestTargetWins
)

// Contest compares two opposed totals. The higher total wins.
func Contest(actorTotal, targetTotal int) ContestResult {
	switch {
	case actorTotal > targetTotal:
		return ContestActorWins
	case targetTotal > actorTotal:
		return ContestTargetWins
	default:
		return ContestTie
	}
}
