package extract

import (
	"regexp"
	"strings"
)

// Recognized text from a time-clock card is noisy: separators come out as
// dots, dashes or stray characters, and spacing is unreliable. The
// extractors take the first substring shaped like a date or an hour and
// normalize only the separators. First match wins; a matrícula or serial
// number that happens to look like an hour will be picked up, and the user
// corrects it.
var (
	dateRe = regexp.MustCompile(`(\d{1,2})[^\d](\d{1,2})[^\d](\d{2,4})`)
	hourRe = regexp.MustCompile(`(\d{2})\s*[:.]\s*(\d{2})`)
)

// Date returns the first date-shaped substring of raw, re-rendered with /
// separators. Digit group widths are kept exactly as captured ("5/1/25"
// stays "5/1/25"); run the result through FormatDateInput before
// validating. The second return is false when nothing matched.
func Date(raw string) (string, bool) {
	d, _, ok := DateAt(raw)
	return d, ok
}

// DateAt is Date plus the byte offset of the match in raw, so a caller can
// rank or disambiguate candidates.
func DateAt(raw string) (string, int, bool) {
	m := dateRe.FindStringSubmatchIndex(raw)
	if m == nil {
		return "", 0, false
	}
	day := raw[m[2]:m[3]]
	month := raw[m[4]:m[5]]
	year := raw[m[6]:m[7]]
	return day + "/" + month + "/" + year, m[0], true
}

// Hour returns the first hour-shaped substring of raw ("13 . 01" as well
// as "13:01"), re-rendered as HH:MM.
func Hour(raw string) (string, bool) {
	h, _, ok := HourAt(raw)
	return h, ok
}

// HourAt is Hour plus the byte offset of the match in raw.
func HourAt(raw string) (string, int, bool) {
	m := hourRe.FindStringSubmatchIndex(raw)
	if m == nil {
		return "", 0, false
	}
	return raw[m[2]:m[3]] + ":" + raw[m[4]:m[5]], m[0], true
}

// FormatDateInput masks free-typed text as a date in progress: non-digits
// are stripped, digits beyond the eighth are dropped, and / separators are
// inserted after the day and month groups.
func FormatDateInput(text string) string {
	digits := onlyDigits(text, 8)
	switch {
	case len(digits) <= 2:
		return digits
	case len(digits) <= 4:
		return digits[:2] + "/" + digits[2:]
	default:
		return digits[:2] + "/" + digits[2:4] + "/" + digits[4:]
	}
}

// FormatHourInput masks free-typed text as an HH:MM hour in progress,
// keeping at most four digits.
func FormatHourInput(text string) string {
	digits := onlyDigits(text, 4)
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + ":" + digits[2:]
}

func onlyDigits(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == max {
				break
			}
		}
	}
	return b.String()
}
