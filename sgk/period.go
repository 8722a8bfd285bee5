package sgk

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/limansoft/liman_backend/utils"
)

var periodRe = regexp.MustCompile(`^([0-9]{4})-(0[1-9]|1[0-2])$`)

// ActivePeriodFor returns the SGK period ("YYYY-MM") that is due at the
// reference date. The cutoff is the 26th of the reference month, pushed past
// weekends and public holidays. Before the cutoff the previous month is still
// the active period.
func ActivePeriodFor(ctx context.Context, oracle HolidayOracle, ref time.Time) string {
	cutoff := time.Date(ref.Year(), ref.Month(), 26, 0, 0, 0, 0, ref.Location())
	for cutoff.Weekday() == time.Saturday || cutoff.Weekday() == time.Sunday || oracle.IsHoliday(ctx, cutoff) {
		cutoff = cutoff.AddDate(0, 0, 1)
	}

	year, month := ref.Year(), int(ref.Month())
	if ref.Before(cutoff) {
		month--
		if month == 0 {
			month = 12
			year--
		}
	}
	return fmt.Sprintf("%04d-%02d", year, month)
}

// NormalizePeriod converts "YYYY-MM" to the six-character "YYYYMM" code.
func NormalizePeriod(period string) (string, error) {
	m := periodRe.FindStringSubmatch(period)
	if m == nil {
		return "", utils.ErrInvalidPeriod
	}
	return m[1] + m[2], nil
}

// FormatPeriod is the inverse of NormalizePeriod: "YYYYMM" -> "YYYY-MM".
func FormatPeriod(code string) string {
	if len(code) != 6 {
		return code
	}
	return code[:4] + "-" + code[4:]
}

// MonthsBetween returns how many months codeA lags behind codeB.
// Positive when codeA is older; both arguments are "YYYYMM" codes.
func MonthsBetween(codeA string, codeB string) int {
	ya, ma := splitCode(codeA)
	yb, mb := splitCode(codeB)
	return (yb-ya)*12 + (mb - ma)
}

func splitCode(code string) (int, int) {
	if len(code) != 6 {
		return 0, 0
	}
	y, _ := strconv.Atoi(code[:4])
	m, _ := strconv.Atoi(code[4:])
	return y, m
}
