package domain

import "testing"

func TestFormatCaseNumber(t *testing.T) {
	cases := []struct {
		year    int
		counter int64
		want    string
	}{
		{2026, 1, "CASE-2026-0001"},
		{2026, 42, "CASE-2026-0042"},
		{2026, 9999, "CASE-2026-9999"},
		{2027, 10000, "CASE-2027-10000"},
	}

	for _, tc := range cases {
		if got := FormatCaseNumber(tc.year, tc.counter); got != tc.want {
			t.Errorf("FormatCaseNumber(%d, %d) = %q, want %q", tc.year, tc.counter, got, tc.want)
		}
	}
}
