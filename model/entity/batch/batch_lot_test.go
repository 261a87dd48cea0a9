package batch

import (
	"testing"
	"time"
)

func TestBatchLot_IsExpired_Boundary(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{"before now", now.Add(-time.Second), true},
		{"exactly now", now, true},
		{"after now", now.Add(time.Second), false},
	}
	for _, tc := range cases {
		lot := &BatchLot{BatchNumber: "B", ExpiryDate: tc.expiry}
		if got := lot.IsExpired(now); got != tc.want {
			t.Errorf("%s: IsExpired = %v, want %v", tc.name, got, tc.want)
		}
	}
}
