package store

import "testing"

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		completed int
		total     int
		want      float64
	}{
		{0, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 8, 62.5},
	}
	for _, tt := range cases {
		if got := CompletionRate(tt.completed, tt.total); got != tt.want {
			t.Fatalf("CompletionRate(%d, %d)=%v, want %v", tt.completed, tt.total, got, tt.want)
		}
	}
}
