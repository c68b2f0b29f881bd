package check

import "testing"

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		total       int
		difficulty  int
		wantSuccess bool
		wantMargin  int
	}{
		{name: "beats difficulty", total: 15, difficulty: 10, wantSuccess: true, wantMargin: 5},
		{name: "meets difficulty exactly", total: 10, difficulty: 10, wantSuccess: true, wantMargin: 0},
		{name: "falls short", total: 7, difficulty: 12, wantSuccess: false, wantMargin: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Check(tt.total, tt.difficulty)
			if result.Success != tt.wantSuccess {
				t.Fatalf("expected success=%v, got %v", tt.wantSuccess, result.Success)
			}
			if result.Margin != tt.wantMargin {
				t.Fatalf("expected margin %d, got %d", tt.wantMargin, result.Margin)
			}
		})
	}
}

func TestContest(t *testing.T) {
	t.Parallel()

	if got := Contest(15, 12); got != ContestActorWins {
		t.Fatalf("expected actor win, got %v", got)
	}
	if got := Contest(9, 14); got != ContestTargetWins {
		t.Fatalf("expected target win, got %v", got)
	}
	if got := Contest(11, 11); got != ContestTie {
		t.Fatalf("expected tie, got %v", got)
	}
}
