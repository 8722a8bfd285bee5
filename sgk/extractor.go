package sgk

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExtractResult is the outcome of scanning one SGK service listing PDF.
// PeriodCode is empty when no period could be detected; IdentityToName is
// empty (never nil) on unrecoverable parse failure.
type ExtractResult struct {
	PeriodCode     string            // "YYYYMM"
	IdentityToName map[string]string // national id -> full name (may be "")
	Order          []string          // identities in order of first appearance
}

var identityRe = regexp.MustCompile(`[1-9][0-9]{10}`)

// Extract parses an SGK monthly service listing. It never fails hard: a PDF
// that cannot be read yields an empty result and the caller records a
// FAILED_PARSE attempt.
func Extract(pdf []byte) ExtractResult {
	text, err := extractText(pdf)
	if err != nil {
		return ExtractResult{IdentityToName: map[string]string{}}
	}
	return extractFromText(text)
}

type identityHit struct {
	id   string
	line int
}

func extractFromText(text string) ExtractResult {
	lines := strings.Split(text, "\n")

	hits := scanIdentities(lines)
	result := ExtractResult{
		PeriodCode:     detectPeriod(text),
		IdentityToName: make(map[string]string, len(hits)),
		Order:          make([]string, 0, len(hits)),
	}

	for k, hit := range hits {
		given := ""
		if hit.line+2 < len(lines) {
			given = alphaTokens(lines[hit.line+2])
		}

		// The surname column starts four lines below the identity and runs
		// until the next identity's line.
		limit := len(lines)
		if k+1 < len(hits) {
			limit = hits[k+1].line
		}
		surname := ""
		for j := hit.line + 4; j < limit && j < len(lines); j++ {
			line := strings.TrimSpace(lines[j])
			if line == "" || containsIdentity(line) {
				continue
			}
			surname = alphaTokens(line)
			break
		}

		full := turkishUpper(strings.TrimSpace(given + " " + surname))
		if utf8.RuneCountInString(full) < 3 {
			full = ""
		}
		result.IdentityToName[hit.id] = full
		result.Order = append(result.Order, hit.id)
	}

	return result
}

// scanIdentities finds every 11-digit national id, first occurrence wins.
func scanIdentities(lines []string) []identityHit {
	var hits []identityHit
	seen := map[string]bool{}
	for i, line := range lines {
		for _, loc := range identityRe.FindAllStringIndex(line, -1) {
			// Reject ids embedded in longer digit runs.
			if loc[0] > 0 && isDigit(line[loc[0]-1]) {
				continue
			}
			if loc[1] < len(line) && isDigit(line[loc[1]]) {
				continue
			}
			id := line[loc[0]:loc[1]]
			if seen[id] {
				continue
			}
			seen[id] = true
			hits = append(hits, identityHit{id: id, line: i})
		}
	}
	return hits
}

func containsIdentity(line string) bool {
	for _, loc := range identityRe.FindAllStringIndex(line, -1) {
		if loc[0] > 0 && isDigit(line[loc[0]-1]) {
			continue
		}
		if loc[1] < len(line) && isDigit(line[loc[1]]) {
			continue
		}
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// alphaTokens keeps the alphabetic tokens of length >= 2, joined by single spaces.
func alphaTokens(line string) string {
	var kept []string
	for _, field := range strings.Fields(line) {
		if utf8.RuneCountInString(field) < 2 {
			continue
		}
		alpha := true
		for _, r := range field {
			if !unicode.IsLetter(r) {
				alpha = false
				break
			}
		}
		if alpha {
			kept = append(kept, field)
		}
	}
	return strings.Join(kept, " ")
}

// circumflexed vowels appear in older SGK exports; fold them onto the plain
// Turkish capitals after uppercasing.
var circumflexReplacer = strings.NewReplacer("Î", "İ", "Û", "Ü")

func turkishUpper(s string) string {
	return circumflexReplacer.Replace(strings.ToUpperSpecial(unicode.TurkishCase, s))
}

var (
	// "Dönem: 2024-10", "DÖNEM : 2024 - 7"
	periodAfterColonRe = regexp.MustCompile(`:\s*(20[0-9]{2})\s*[-–]\s*([1-9]|0[1-9]|1[0-2])\b`)
	// bare "2024-10"
	periodDashRe = regexp.MustCompile(`\b(20[0-9]{2})[-–]\s*(0[1-9]|1[0-2])\b`)
)

var turkishMonths = map[string]string{
	"OCAK": "01", "ŞUBAT": "02", "MART": "03", "NİSAN": "04",
	"MAYIS": "05", "HAZİRAN": "06", "TEMMUZ": "07", "AĞUSTOS": "08",
	"EYLÜL": "09", "EKİM": "10", "KASIM": "11", "ARALIK": "12",
}

const monthNameAlternation = `OCAK|ŞUBAT|MART|NİSAN|MAYIS|HAZİRAN|TEMMUZ|AĞUSTOS|EYLÜL|EKİM|KASIM|ARALIK`

var (
	// \b does not work next to non-ASCII letters, so the month-name rules
	// run over the uppercased text without word boundaries.
	monthThenYearRe = regexp.MustCompile(`(` + monthNameAlternation + `)(?:\s+AYI)?\s+(20[0-9]{2})`)
	yearThenMonthRe = regexp.MustCompile(`(20[0-9]{2})\s+(?:AYI\s+)?(` + monthNameAlternation + `)`)
)

// detectPeriod scans for the listing's reporting period, first hit wins.
func detectPeriod(text string) string {
	if m := periodAfterColonRe.FindStringSubmatch(text); m != nil {
		month := m[2]
		if len(month) == 1 {
			month = "0" + month
		}
		return m[1] + month
	}

	if m := periodDashRe.FindStringSubmatch(text); m != nil {
		return m[1] + m[2]
	}

	upper := turkishUpper(text)
	monthFirst := monthThenYearRe.FindStringSubmatchIndex(upper)
	yearFirst := yearThenMonthRe.FindStringSubmatchIndex(upper)

	switch {
	case monthFirst != nil && (yearFirst == nil || monthFirst[0] <= yearFirst[0]):
		name := upper[monthFirst[2]:monthFirst[3]]
		year := upper[monthFirst[4]:monthFirst[5]]
		return year + turkishMonths[name]
	case yearFirst != nil:
		year := upper[yearFirst[2]:yearFirst[3]]
		name := upper[yearFirst[4]:yearFirst[5]]
		return year + turkishMonths[name]
	}
	return ""
}
