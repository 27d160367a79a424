package core

// convert.go provides coercion functions for untrusted spreadsheet cells.
//
// These functions handle the messy reality of hand-maintained attendance sheets:
//   - Spreadsheet exports that write integers as "3.0"
//   - Various boolean representations (TRUE, yes, 1)
//   - Excel formula prefixes (="value")
//   - Stray quoting and whitespace around cells and headers
//
// None of these functions fail: bad input coerces to the zero value.

import (
	"math"
	"strconv"
	"strings"
)

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes matching pairs of surrounding quotes
//
// Cleanup repeats until the value is stable, so CleanCell(CleanCell(s)) == CleanCell(s).
func CleanCell(s string) string {
	for {
		prev := s
		s = strings.TrimSpace(s)

		if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
			s = s[2 : len(s)-1]
		}

		if len(s) >= 2 {
			first, last := s[0], s[len(s)-1]
			if first == last && (first == '"' || first == '\'') {
				s = s[1 : len(s)-1]
			}
		}

		if s == prev {
			return s
		}
	}
}

// headerKey folds a header for matching: cleaned, lowercased, single-spaced.
func headerKey(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(CleanCell(h)), " "))
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are folded with headerKey; the first occurrence of a header wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := headerKey(h)
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// ParseLooseBool reports whether s is one of "true", "yes" or "1",
// ignoring case and surrounding whitespace. Anything else is false.
func ParseLooseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}

// ParseBool converts a string using the wider set of accepted spellings.
// ok is false when s is not recognisably a boolean.
func ParseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}

// ParseSequence converts a sequence-number cell to a positive int.
// Empty, non-numeric, fractional, zero and negative values return 0 (unassigned).
func ParseSequence(s string) int {
	s = CleanCell(s)
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n > 0 {
			return n
		}
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f != math.Trunc(f) || f <= 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// FormatBool renders an attendance flag the way spreadsheets show it.
func FormatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// FormatSequence renders a sequence number, leaving unassigned ones blank.
func FormatSequence(no int) string {
	if no <= 0 {
		return ""
	}
	return strconv.Itoa(no)
}
