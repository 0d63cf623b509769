package network

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var yearPattern = regexp.MustCompile(`\d+`)

// YearSet is an ascending set of years without duplicates.
type YearSet []int

func NewYearSet(years ...int) YearSet {
	if len(years) == 0 {
		return YearSet{}
	}
	sorted := append([]int(nil), years...)
	sort.Ints(sorted)
	out := sorted[:1]
	for _, y := range sorted[1:] {
		if y != out[len(out)-1] {
			out = append(out, y)
		}
	}
	return YearSet(out)
}

func (s YearSet) Contains(year int) bool {
	i := sort.SearchInts(s, year)
	return i < len(s) && s[i] == year
}

// ParseYearSet reads a node's membership field. The field may be a number, a list, or
// a delimited string such as "1946, 1961;1989". Whole numbers only are matched, so
// 198 never matches 1980.
func ParseYearSet(raw json.RawMessage) YearSet {
	if len(raw) == 0 {
		return YearSet{}
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return YearSet{}
	}
	return NewYearSet(collectYears(v)...)
}

func collectYears(v interface{}) []int {
	switch t := v.(type) {
	case float64:
		if y, ok := wholeNumber(t); ok {
			return []int{y}
		}
	case string:
		var years []int
		for _, m := range yearPattern.FindAllString(t, -1) {
			if y, err := strconv.ParseInt(m, 10, 32); err == nil {
				years = append(years, int(y))
			}
		}
		return years
	case []interface{}:
		var years []int
		for _, e := range t {
			years = append(years, collectYears(e)...)
		}
		return years
	}
	return nil
}

// ParseEdgeYear reads an edge's single year. Integral numbers and numeric strings are
// accepted; anything else reports false.
func ParseEdgeYear(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return wholeNumber(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return wholeNumber(f)
	}
	return 0, false
}

// wholeNumber converts f to a year. Fractions and values outside the int32 range
// are rejected.
func wholeNumber(f float64) (int, bool) {
	if math.IsNaN(f) || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
