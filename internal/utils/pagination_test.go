package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"42", 0, 42},
		{"", 10, 10},
		{"x", 5, 5},
		{"-3", 0, -3},
		{"3.5", 7, 7},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Errorf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		page, size, max       int
		wantOffset, wantLimit int
	}{
		{1, 20, 200, 0, 20},
		{3, 10, 200, 20, 10},
		{0, 10, 200, 0, 0},
		{2, 0, 200, 0, 0},
		{1, 500, 200, 0, 200},
		{1, 500, 0, 0, 500},
	}
	for _, tc := range cases {
		off, lim := PageWindow(tc.page, tc.size, tc.max)
		if off != tc.wantOffset || lim != tc.wantLimit {
			t.Errorf("PageWindow(%d,%d,%d) = (%d,%d); want (%d,%d)",
				tc.page, tc.size, tc.max, off, lim, tc.wantOffset, tc.wantLimit)
		}
	}
}
