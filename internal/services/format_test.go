package services

import "testing"

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0 min"},
		{29, "0 min"},
		{30, "1 min"},
		{3540, "59 min"},
		{3600, "1 h"},
		{5400, "1 h 30 min"},
		{7200, "2 h"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
