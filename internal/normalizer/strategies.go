package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tailscale/hujson"
)

// Strategy names the repair step that produced a parseable object.
type Strategy string

const (
	StrategyStrict      Strategy = "strict"
	StrategyFences      Strategy = "fences"
	StrategyBraces      Strategy = "braces"
	StrategyRepair      Strategy = "repair"
	StrategyLenient     Strategy = "lenient"
	StrategyBalance     Strategy = "balance"
	StrategyPlaceholder Strategy = "placeholder"
)

var (
	ErrEmpty         = errors.New("empty response")
	ErrUnrecoverable = errors.New("response could not be parsed as a JSON object")

	errNotObject = errors.New("not a JSON object")
	errNoFence   = errors.New("no code fence")
	errNoBraces  = errors.New("no braces")
)

type strategy struct {
	name Strategy
	fn   func(string) (map[string]any, error)
}

// strategies run in order; the first one returning an object wins.
var strategies = []strategy{
	{StrategyStrict, parseObject},
	{StrategyFences, fromFences},
	{StrategyBraces, fromBraces},
	{StrategyRepair, fromRepair},
	{StrategyLenient, fromLenient},
	{StrategyBalance, fromBalance},
}

// ExtractObject turns raw model output into a JSON object, trying each
// repair strategy in turn.
func ExtractObject(raw string) (map[string]any, Strategy, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, StrategyPlaceholder, ErrEmpty
	}
	errs := make([]error, 0, len(strategies))
	for _, st := range strategies {
		obj, err := st.fn(raw)
		if err == nil {
			return obj, st.name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", st.name, err))
	}
	return nil, StrategyPlaceholder, fmt.Errorf("%w: %w", ErrUnrecoverable, errors.Join(errs...))
}

func parseObject(s string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}

func fromFences(s string) (map[string]any, error) {
	if !strings.Contains(s, "```") {
		return nil, errNoFence
	}
	return parseObject(stripFences(s))
}

// fromBraces decodes the first JSON value opening at the first "{", which
// ignores any trailing prose. Failing that it parses the outermost braces.
func fromBraces(s string) (map[string]any, error) {
	start := strings.Index(s, "{")
	if start == -1 {
		return nil, errNoBraces
	}
	var v any
	if err := json.NewDecoder(strings.NewReader(s[start:])).Decode(&v); err == nil {
		if obj, ok := v.(map[string]any); ok {
			return obj, nil
		}
	}
	candidate, ok := outerBraces(s)
	if !ok {
		return nil, errNoBraces
	}
	return parseObject(candidate)
}

func fromRepair(s string) (map[string]any, error) {
	return parseObject(repairText(candidate(s)))
}

func fromLenient(s string) (map[string]any, error) {
	c := candidate(s)
	var lastErr error
	for _, in := range []string{c, repairText(c)} {
		std, err := hujson.Standardize([]byte(in))
		if err != nil {
			lastErr = err
			continue
		}
		obj, err := parseObject(string(std))
		if err == nil {
			return obj, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func fromBalance(s string) (map[string]any, error) {
	c := stripFences(s)
	start := strings.IndexAny(c, "{")
	if start == -1 {
		// stray closers only, e.g. `"a": 1}`
		if !strings.ContainsAny(c, "}") {
			return nil, errNoBraces
		}
		start = 0
	}
	c = repairText(c[start:])
	return parseObject(repairText(balanceDelimiters(c)))
}

var fenceRe = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \\t]*\\r?\\n?(.*?)```")

// stripFences removes markdown code fences. An opening fence without a
// closing one (truncated output) is dropped as well.
func stripFences(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimLeft(s, "`")
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// outerBraces returns the text between the first "{" and the last "}".
func outerBraces(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// candidate is the best guess at the JSON part of s: fences stripped and,
// when possible, narrowed to the outermost braces.
func candidate(s string) string {
	s = stripFences(s)
	if c, ok := outerBraces(s); ok {
		return c
	}
	return s
}

var smartQuotes = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`, "«", `"`, "»", `"`,
	"‘", "'", "’", "'",
)

// repairText fixes the usual defects of model-written JSON outside string
// literals: single-quoted strings, bare keys, Python literals and trailing
// commas. Valid JSON passes through unchanged.
func repairText(s string) string {
	s = smartQuotes.Replace(s)
	n := len(s)
	var b strings.Builder
	b.Grow(n + 16)

	inStr, esc := false, false
	for i := 0; i < n; {
		c := s[i]
		if inStr {
			b.WriteByte(c)
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inStr = false
			}
			i++
			continue
		}

		switch {
		case c == '"':
			inStr = true
			b.WriteByte(c)
			i++
		case c == '\'':
			i = writeSingleQuoted(&b, s, i)
		case c == ',':
			k := skipSpace(s, i+1)
			if k == n || s[k] == '}' || s[k] == ']' {
				i++
				continue
			}
			b.WriteByte(c)
			i++
		case isIdentStart(c):
			j := i
			for j < n && isIdentChar(s[j]) {
				j++
			}
			word := s[i:j]
			if k := skipSpace(s, j); k < n && s[k] == ':' {
				b.WriteString(`"` + word + `"`)
			} else {
				b.WriteString(literal(word))
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// writeSingleQuoted rewrites a single-quoted literal starting at s[i] as a
// double-quoted one and returns the index after it. An unterminated literal
// is left open so the balancing step can close it.
func writeSingleQuoted(b *strings.Builder, s string, i int) int {
	b.WriteByte('"')
	j := i + 1
	for j < len(s) {
		ch := s[j]
		switch {
		case ch == '\\' && j+1 < len(s):
			if s[j+1] == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte(ch)
				b.WriteByte(s[j+1])
			}
			j += 2
			continue
		case ch == '\'':
			b.WriteByte('"')
			return j + 1
		case ch == '"':
			b.WriteString(`\"`)
		case ch == '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(ch)
		}
		j++
	}
	return j
}

func literal(word string) string {
	switch word {
	case "True", "TRUE":
		return "true"
	case "False", "FALSE":
		return "false"
	case "None", "NULL", "Null", "nil", "undefined", "NaN":
		return "null"
	}
	return word
}

// balanceDelimiters closes an unterminated string, prepends openers for
// stray leading closers and appends closers for unclosed openers.
func balanceDelimiters(s string) string {
	var stack, strays []byte
	inStr, esc := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			open := opener(c)
			switch {
			case len(stack) == 0:
				strays = append(strays, open)
			case stack[len(stack)-1] == open:
				stack = stack[:len(stack)-1]
			default:
				// mismatched closer: treat it as closing the innermost opener
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	for i := len(strays) - 1; i >= 0; i-- {
		b.WriteByte(strays[i])
	}
	b.WriteString(s)
	if esc {
		b.WriteByte('\\')
	}
	if inStr {
		b.WriteByte('"')
	}
	tail := strings.TrimRight(b.String(), " \t\r\n")
	b.Reset()
	b.WriteString(tail)
	if strings.HasSuffix(tail, ":") {
		b.WriteString("null")
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(closer(stack[i]))
	}
	return b.String()
}

func opener(c byte) byte {
	if c == '}' {
		return '{'
	}
	return '['
}

func closer(c byte) byte {
	if c == '{' {
		return '}'
	}
	return ']'
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
