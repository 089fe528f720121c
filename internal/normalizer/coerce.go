package normalizer

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberRe = regexp.MustCompile(`-?\d+(?:[.,]\d+)*`)

// toFloat coerces a decoded JSON value to a number. Strings are reduced to
// their first number ("85%" and "85 pontos" give 85, "8,5" gives 8.5);
// anything unusable gives 0. See decimalText for separators.
func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	case json.Number:
		return toFloat(string(x))
	case string:
		m := numberRe.FindString(x)
		if m == "" {
			return 0
		}
		f, err := strconv.ParseFloat(decimalText(m), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if x {
			return 1
		}
		return 0
	}
	return 0
}

// decimalText rewrites a matched number with "." as the only separator.
// With both separators present the last one is the decimal mark, so
// "1.234,5" and "1,234.5" both give 1234.5. A separator repeated on its own
// groups thousands ("1.234.567"); a single one is the decimal mark, so
// "1.234" stays 1.234.
func decimalText(m string) string {
	dot, comma := strings.LastIndex(m, "."), strings.LastIndex(m, ",")
	switch {
	case dot != -1 && comma != -1:
		if comma > dot {
			return strings.Replace(strings.ReplaceAll(m, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(m, ",", "")
	case strings.Count(m, ".") > 1:
		return strings.ReplaceAll(m, ".", "")
	case strings.Count(m, ",") > 1:
		return strings.ReplaceAll(m, ",", "")
	}
	return strings.Replace(m, ",", ".", 1)
}

func toInt(v any) int {
	return int(math.Round(toFloat(v)))
}

func toBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.Trim(strings.TrimSpace(x), ".!")) {
		case "sim", "s", "true", "yes", "y", "1", "ocorreu", "verdadeiro":
			return true
		}
	}
	return false
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// lookup returns the first present, non-null value among keys.
func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func setString(dst *string, m map[string]any, keys ...string) {
	if v, ok := lookup(m, keys...); ok {
		*dst = toString(v)
	}
}

func setFloat(dst *float64, m map[string]any, keys ...string) {
	if v, ok := lookup(m, keys...); ok {
		*dst = toFloat(v)
	}
}
