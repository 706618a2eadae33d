package dataprocessing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serial dates count days from the 1899-12-30 epoch; 25569 is the
// day offset between that epoch and 1970-01-01.
const serialEpochOffset = 25569

// Serial values are only trusted inside this open range. Anything smaller is
// probably a plain integer column; anything larger is probably a millisecond
// timestamp. 30000 ~ 1982, 100000 ~ 2173.
const (
	serialMin = 30000
	serialMax = 100000
)

// dateLayouts are tried in order for native parsing before the day-first
// regex fallback. Slash/dash numeric forms are deliberately absent: those are
// ambiguous between DD/MM and MM/DD and belong to the fallback, which reads
// them day-first the way the upstream exports write them.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2 January 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// dayFirstDate matches DD/MM/YYYY and DD-MM-YYYY with 2- or 4-digit years.
var dayFirstDate = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)

// ParseDate converts a loosely-typed cell value into a calendar date.
// It accepts nil, empty strings, spreadsheet serial numbers, a handful of
// common layouts, and day-first slash/dash dates. Anything it cannot make
// sense of becomes nil; it never returns an invalid date and never errors.
func ParseDate(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		t := v
		return &t
	case *time.Time:
		return v
	case float64:
		return serialDate(v)
	case float32:
		return serialDate(float64(v))
	case int:
		return serialDate(float64(v))
	case int64:
		return serialDate(float64(v))
	}

	s := strings.TrimSpace(toString(value))
	if s == "" {
		return nil
	}

	// Numeric strings inside the serial window are serial dates too; Sheets
	// and CSV exports frequently deliver serials as text.
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return serialDate(n)
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}

	if m := dayFirstDate.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
			// time.Date normalizes overflow (31 Feb becomes 2-3 Mar); reject
			// anything that did not survive the round-trip.
			if t.Day() == day && int(t.Month()) == month && t.Year() == year {
				return &t
			}
		}
	}

	return nil
}

// serialDate converts a spreadsheet day-count serial to a date, or nil when
// the number falls outside the trusted serial window.
func serialDate(n float64) *time.Time {
	if n <= serialMin || n >= serialMax {
		return nil
	}
	secs := (n - serialEpochOffset) * 86400
	t := time.Unix(int64(secs), 0).In(time.Local)
	return &t
}

// nonNumeric strips everything that cannot be part of a float literal.
var nonNumeric = regexp.MustCompile(`[^0-9.\-]+`)

// ParseNumber converts a loosely-typed cell value into a float64. Numeric
// input passes through unchanged; nil and empty strings become 0. String
// input gets mixed thousands/decimal separator normalization first: when both
// "," and "." appear the later-occurring one is the decimal point, and a
// lone comma is read as a decimal point. Unparseable input degrades to 0;
// the function never returns NaN and never errors.
func ParseNumber(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	}

	s := strings.TrimSpace(toString(value))
	if s == "" {
		return 0
	}

	s = normalizeSeparators(s)
	s = nonNumeric.ReplaceAllString(s, "")

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// normalizeSeparators resolves locale-mixed thousands/decimal separators.
// "1.500.000,50" -> "1500000.50", "1,500,000.25" -> "1500000.25",
// "1500000,50" -> "1500000.50", "2.500.000" -> "2500000".
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// Comma is the decimal point, dots are thousands separators.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// Only commas: a lone comma is a decimal point; several commas can
		// only be thousands separators.
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		// Only dots: Indonesian exports group thousands with dots, so more
		// than one dot means none of them is a decimal point.
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

// ParseBool reports whether the cell holds an affirmative flag. The upstream
// sheets write booleans as the literal "yes".
func ParseBool(value any) bool {
	return strings.EqualFold(strings.TrimSpace(toString(value)), "yes")
}

// toString renders a scalar cell value as a string, avoiding scientific
// notation for integral floats.
func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
