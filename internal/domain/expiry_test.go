package domain

import (
	"testing"
	"time"
)

func intPtr(i int) *int { return &i }

func TestExpiryAt(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		program *Program
		now     time.Time
		want    *time.Time
	}{
		{
			name:    "nil program never expires",
			program: nil,
			now:     now,
		},
		{
			name:    "program without policy never expires",
			program: &Program{ID: "prog-1"},
			now:     now,
		},
		{
			name:    "twelve month policy",
			program: &Program{ID: "prog-1", ExpirationMonths: intPtr(12)},
			now:     now,
			want:    timePtr(time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)),
		},
		{
			name:    "one month from january 31 normalizes into march",
			program: &Program{ID: "prog-1", ExpirationMonths: intPtr(1)},
			now:     time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
			want:    timePtr(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:    "one month from january 31 in a leap year",
			program: &Program{ID: "prog-1", ExpirationMonths: intPtr(1)},
			now:     time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			want:    timePtr(time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpiryAt(tt.program, tt.now)

			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil expiry, got %v", got)
				}
				return
			}

			if got == nil {
				t.Fatal("expected expiry, got nil")
			}

			if !got.Equal(*tt.want) {
				t.Errorf("expected %v, got %v", *tt.want, *got)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
