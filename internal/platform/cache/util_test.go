package cache

import (
	"testing"
	"time"
)

func TestTimeUntilNextRefresh(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("test", 9*60*60)
	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"before refresh hour", time.Date(2025, 1, 15, 6, 30, 0, 0, loc), 90 * time.Minute},
		{"exactly at refresh hour", time.Date(2025, 1, 15, 8, 0, 0, 0, loc), 24 * time.Hour},
		{"after refresh hour", time.Date(2025, 1, 15, 20, 0, 0, 0, loc), 12 * time.Hour},
		{"end of month", time.Date(2025, 1, 31, 23, 0, 0, 0, loc), 9 * time.Hour},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TimeUntilNextRefresh(tt.now, DefaultRefreshHour); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTimeUntilNextRefresh_Now(t *testing.T) {
	t.Parallel()

	duration := TimeUntilNextRefresh(time.Now(), DefaultRefreshHour)

	// Duration should always be positive and at most 24 hours (DST aside)
	if duration <= 0 {
		t.Errorf("expected positive duration, got %v", duration)
	}
	if duration > 25*time.Hour {
		t.Errorf("expected duration less than 25 hours, got %v", duration)
	}
}
