package progress

import "testing"

func TestNextLevel(t *testing.T) {
	tests := []struct {
		level   int
		correct bool
		want    int
	}{
		{0, true, 1},
		{0, false, 0},
		{5, true, 6},
		{5, false, 4},
		{9, true, 10},
		{10, true, 10},
		{10, false, 9},
		{1, false, 0},
	}

	for _, tt := range tests {
		got := NextLevel(tt.level, tt.correct)
		if got != tt.want {
			t.Errorf("NextLevel(%d, %v) = %d, want %d", tt.level, tt.correct, got, tt.want)
		}
	}
}

func TestNextLevelStaysInRange(t *testing.T) {
	for level := 0; level <= 10; level++ {
		for _, correct := range []bool{true, false} {
			got := NextLevel(level, correct)
			if got < 0 || got > 10 {
				t.Errorf("NextLevel(%d, %v) = %d, outside [0, 10]", level, correct, got)
			}
		}
	}
}

func TestNextLevelClampsCorruptInput(t *testing.T) {
	if got := NextLevel(-3, false); got != 0 {
		t.Errorf("NextLevel(-3, false) = %d, want 0", got)
	}
	if got := NextLevel(42, true); got != 10 {
		t.Errorf("NextLevel(42, true) = %d, want 10", got)
	}
}
