package profile

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// missingTokens are the cell values treated as absent, matching the usual
// spreadsheet and dataframe conventions.
var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "#NA": {}, "<NA>": {},
}

func isMissing(v string) bool {
	_, ok := missingTokens[strings.TrimSpace(v)]
	return ok
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"2006-01-02T15:04:05",
}

func parseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber accepts finite decimal or scientific notation.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

const (
	categoricalMaxDistinct = 50
	categoricalMaxRatio    = 0.5
)

// inferKind picks the narrowest kind every present value parses as.
// Strings fall back to categorical when values repeat and to text when
// most are unique.
func inferKind(present []string) Kind {
	if len(present) == 0 {
		return KindUnsupported
	}

	allBool, allNum := true, true
	distinct := make(map[string]struct{})
	for _, v := range present {
		if allBool {
			_, allBool = parseBool(v)
		}
		if allNum {
			_, allNum = parseNumber(v)
		}
		distinct[v] = struct{}{}
	}

	switch {
	case allBool:
		return KindBoolean
	case allNum:
		return KindNumeric
	case allTimes(present):
		return KindDateTime
	}

	if len(distinct) <= categoricalMaxDistinct ||
		float64(len(distinct))/float64(len(present)) <= categoricalMaxRatio {
		return KindCategorical
	}
	return KindText
}

func allTimes(values []string) bool {
	for _, v := range values {
		if _, ok := parseTime(v); !ok {
			return false
		}
	}
	return true
}
