package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDate(t *testing.T) {
	cases := []struct {
		s  string
		ok bool
	}{
		{"2024-02-29", true},
		{"2025-12-31", true},
		{"2025-02-29", false}, // not a leap year
		{"2025-13-01", false},
		{"2025-1-01", false}, // zero-padding required
		{"20250101", false},
		{"", false},
	}
	for i, tc := range cases {
		err := ValidateDate(tc.s)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	cases := []struct {
		s  string
		ok bool
	}{
		{"2025-01", true},
		{"2025-12", true},
		{"2025-13", false},
		{"2025-1", false},
		{"2025-01-01", false},
		{"", false},
	}
	for i, tc := range cases {
		err := ValidateMonth(tc.s)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("case %d expected ErrInvalidMonth, got %v", i, err)
		}
	}
}

func TestMonthOf(t *testing.T) {
	if got := MonthOf("2025-03-14"); got != "2025-03" {
		t.Fatalf("expected 2025-03, got %q", got)
	}
}

func TestMonthToken(t *testing.T) {
	now := time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)
	if got := MonthToken(now); got != "2024-02" {
		t.Fatalf("expected 2024-02, got %q", got)
	}
}

func TestPrevMonth(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2024-02", "2024-01"},
		{"2024-01", "2023-12"}, // year boundary
		{"2024-12", "2024-11"},
	}
	for i, tc := range cases {
		got, err := PrevMonth(tc.in)
		if err != nil {
			t.Fatalf("case %d unexpected error %v", i, err)
		}
		if got != tc.want {
			t.Fatalf("case %d expected %q, got %q", i, tc.want, got)
		}
	}
	if _, err := PrevMonth("bogus"); err == nil {
		t.Fatalf("expected error for bad month token")
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds("2024-02")
	if start != "2024-02-01" || end != "2024-02-31" {
		t.Fatalf("unexpected bounds %q..%q", start, end)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	cases := []struct {
		month string
		want  int
	}{
		{"2024-02", 29}, // leap year
		{"2023-02", 28},
		{"2024-04", 30},
		{"2024-01", 31},
	}
	for i, tc := range cases {
		got, err := LastDayOfMonth(tc.month)
		if err != nil {
			t.Fatalf("case %d unexpected error %v", i, err)
		}
		if got != tc.want {
			t.Fatalf("case %d expected %d, got %d", i, tc.want, got)
		}
	}
}

func TestDateInMonthClampsDay(t *testing.T) {
	cases := []struct {
		month string
		day   int
		want  string
	}{
		{"2024-02", 31, "2024-02-29"}, // clamped to leap-day
		{"2023-02", 30, "2023-02-28"},
		{"2024-04", 15, "2024-04-15"},
		{"2024-01", 31, "2024-01-31"},
	}
	for i, tc := range cases {
		got, err := DateInMonth(tc.month, tc.day)
		if err != nil {
			t.Fatalf("case %d unexpected error %v", i, err)
		}
		if got != tc.want {
			t.Fatalf("case %d expected %q, got %q", i, tc.want, got)
		}
	}
}

func TestDayOf(t *testing.T) {
	day, err := DayOf("2024-03-07")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if day != 7 {
		t.Fatalf("expected 7, got %d", day)
	}
}
