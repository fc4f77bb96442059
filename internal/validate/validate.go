// Package validate checks assembled date and hour strings before they are
// persisted. Both checks are strict about width: the extractors may emit
// "5/1/25", but only the canonical zero-padded forms are accepted here.
package validate

// Date reports whether s is a calendar-valid DD/MM/YYYY date.
func Date(s string) bool {
	if len(s) != 10 || s[2] != '/' || s[5] != '/' {
		return false
	}
	day, ok1 := digits(s[0:2])
	month, ok2 := digits(s[3:5])
	year, ok3 := digits(s[6:10])
	if !ok1 || !ok2 || !ok3 {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= daysInMonth(month, year)
}

// Hour reports whether s is a valid HH:MM 24-hour clock time.
func Hour(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, ok1 := digits(s[0:2])
	m, ok2 := digits(s[3:5])
	return ok1 && ok2 && h <= 23 && m <= 59
}

func daysInMonth(month, year int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// isLeap applies the proleptic Gregorian rule.
func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func digits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
