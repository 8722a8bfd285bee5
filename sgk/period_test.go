package sgk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/limansoft/liman_backend/utils"
)

// fakeOracle marks fixed dates as holidays, keyed by "2006-01-02".
type fakeOracle map[string]bool

func (f fakeOracle) IsHoliday(_ context.Context, date time.Time) bool {
	return f[date.Format("2006-01-02")]
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestActivePeriodBeforeCutoffIsPreviousMonth(t *testing.T) {
	got := ActivePeriodFor(context.Background(), fakeOracle{}, day(2024, time.September, 10))
	if got != "2024-08" {
		t.Fatalf("expected 2024-08, got %s", got)
	}
}

func TestActivePeriodOnCutoffIsCurrentMonth(t *testing.T) {
	// 2024-09-26 is a Thursday, businesslike cutoff with no adjustment.
	got := ActivePeriodFor(context.Background(), fakeOracle{}, day(2024, time.September, 26))
	if got != "2024-09" {
		t.Fatalf("expected 2024-09, got %s", got)
	}
}

func TestActivePeriodCutoffSkipsWeekend(t *testing.T) {
	// 2024-10-26 is a Saturday; the cutoff moves to Monday the 28th.
	ctx := context.Background()
	if got := ActivePeriodFor(ctx, fakeOracle{}, day(2024, time.October, 26)); got != "2024-09" {
		t.Fatalf("on the 26th (Saturday) expected 2024-09, got %s", got)
	}
	if got := ActivePeriodFor(ctx, fakeOracle{}, day(2024, time.October, 28)); got != "2024-10" {
		t.Fatalf("on the 28th (Monday) expected 2024-10, got %s", got)
	}
}

func TestActivePeriodCutoffSkipsHolidays(t *testing.T) {
	// 2025-05-26 is a Monday; marking the 26th and 27th as holidays pushes
	// the cutoff to Wednesday the 28th.
	oracle := fakeOracle{"2025-05-26": true, "2025-05-27": true}
	ctx := context.Background()
	if got := ActivePeriodFor(ctx, oracle, day(2025, time.May, 27)); got != "2025-04" {
		t.Fatalf("before adjusted cutoff expected 2025-04, got %s", got)
	}
	if got := ActivePeriodFor(ctx, oracle, day(2025, time.May, 28)); got != "2025-05" {
		t.Fatalf("on adjusted cutoff expected 2025-05, got %s", got)
	}
}

func TestActivePeriodYearRoll(t *testing.T) {
	got := ActivePeriodFor(context.Background(), fakeOracle{}, day(2025, time.January, 10))
	if got != "2024-12" {
		t.Fatalf("expected 2024-12, got %s", got)
	}
}

func TestNormalizePeriod(t *testing.T) {
	code, err := NormalizePeriod("2024-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "202410" {
		t.Fatalf("expected 202410, got %s", code)
	}

	for _, bad := range []string{"", "202410", "2024-13", "2024-0", "2024-1", "24-10", "2024/10", "2024-10-01"} {
		_, err := NormalizePeriod(bad)
		if !errors.Is(err, utils.ErrInvalidPeriod) {
			t.Errorf("NormalizePeriod(%q): expected ErrInvalidPeriod, got %v", bad, err)
		}
	}
	if code := utils.CodeOf(utils.ErrInvalidPeriod); code != "INVALID_PERIOD" {
		t.Fatalf("expected INVALID_PERIOD code, got %s", code)
	}
}

func TestFormatPeriod(t *testing.T) {
	if got := FormatPeriod("202410"); got != "2024-10" {
		t.Fatalf("expected 2024-10, got %s", got)
	}
	// Unknown shapes pass through untouched.
	if got := FormatPeriod("garbage"); got != "garbage" {
		t.Fatalf("expected passthrough, got %s", got)
	}
}

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"202408", "202410", 2},
		{"202412", "202501", 1},
		{"202410", "202410", 0},
		{"202411", "202410", -1},
	}
	for _, c := range cases {
		if got := MonthsBetween(c.a, c.b); got != c.want {
			t.Errorf("MonthsBetween(%s, %s) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
