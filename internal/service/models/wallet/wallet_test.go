package wallet

import "testing"

func TestPointsForOrderTotal(t *testing.T) {
	cases := []struct {
		totalCents int64
		points     int64
	}{
		{0, 0},
		{9900, 0},
		{10000, 1},
		{500000, 50},
		{123456, 12},
	}

	for _, c := range cases {
		if got := PointsForOrderTotal(c.totalCents); got != c.points {
			t.Errorf("total %d: got %d points, want %d", c.totalCents, got, c.points)
		}
	}
}
