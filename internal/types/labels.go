package types

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Response is the verdict for one checklist item.
type Response string

const (
	ResponseYes           Response = "Sim"
	ResponsePartial       Response = "Parcial"
	ResponseNo            Response = "Não"
	ResponseNotVerifiable Response = "Não verificável"
)

// Temperature is the emotional classification of the call.
type Temperature string

const (
	TemperatureCalm      Temperature = "Calma"
	TemperatureNeutral   Temperature = "Neutra"
	TemperatureTense     Temperature = "Tensa"
	TemperatureVeryTense Temperature = "Muito Tensa"
)

// ScriptStatus is the closing-script usage verdict.
type ScriptStatus string

const (
	ScriptComplete ScriptStatus = "Completo"
	ScriptPartial  ScriptStatus = "Parcial"
	ScriptNotUsed  ScriptStatus = "Não utilizado"
)

// Temperatures lists the classifications from calmest to tensest.
var Temperatures = []Temperature{TemperatureCalm, TemperatureNeutral, TemperatureTense, TemperatureVeryTense}

// ParseResponse maps a free-text label to a Response. Anything it does not
// recognise is treated as not verifiable, which earns no credit.
func ParseResponse(label string) Response {
	l := foldLabel(label)
	switch {
	case l == "":
		return ResponseNotVerifiable
	case strings.Contains(l, "verific"), strings.Contains(l, "se aplica"), strings.Contains(l, "aplicavel"),
		l == "n/a", l == "na", l == "nv", l == "not applicable":
		return ResponseNotVerifiable
	case strings.HasPrefix(l, "parcial"), strings.HasPrefix(l, "partial"):
		return ResponsePartial
	case strings.HasPrefix(l, "nao"), l == "no", l == "n", l == "false", l == "not met":
		return ResponseNo
	case strings.HasPrefix(l, "sim"), l == "yes", l == "y", l == "s", l == "true", l == "ok",
		strings.HasPrefix(l, "atendeu"), strings.HasPrefix(l, "cumpriu"):
		return ResponseYes
	}
	return ResponseNotVerifiable
}

// Valid reports whether r is one of the canonical verdicts.
func (r Response) Valid() bool {
	switch r {
	case ResponseYes, ResponsePartial, ResponseNo, ResponseNotVerifiable:
		return true
	}
	return false
}

// ParseTemperature maps a free-text label to a Temperature.
func ParseTemperature(label string) (Temperature, bool) {
	l := foldLabel(label)
	switch {
	case strings.Contains(l, "muito tens"), strings.Contains(l, "very tense"), strings.Contains(l, "muito nervos"):
		return TemperatureVeryTense, true
	case strings.HasPrefix(l, "tens"), strings.HasPrefix(l, "tense"):
		return TemperatureTense, true
	case strings.HasPrefix(l, "neutr"):
		return TemperatureNeutral, true
	case strings.HasPrefix(l, "calm"), strings.HasPrefix(l, "tranquil"):
		return TemperatureCalm, true
	}
	return "", false
}

// Valid reports whether t is one of the canonical classifications.
func (t Temperature) Valid() bool {
	for _, c := range Temperatures {
		if t == c {
			return true
		}
	}
	return false
}

// ParseScriptStatus maps a free-text label to a ScriptStatus.
func ParseScriptStatus(label string) (ScriptStatus, bool) {
	l := foldLabel(label)
	switch {
	case l == "":
		return "", false
	case strings.HasPrefix(l, "nao"), strings.Contains(l, "not used"), l == "no", l == "none", l == "ausente", l == "false":
		return ScriptNotUsed, true
	case strings.HasPrefix(l, "parcial"), strings.HasPrefix(l, "partial"):
		return ScriptPartial, true
	case strings.HasPrefix(l, "complet"), strings.HasPrefix(l, "sim"), strings.HasPrefix(l, "utilizad"),
		l == "yes", l == "true", l == "full", l == "total":
		return ScriptComplete, true
	}
	return "", false
}

// Valid reports whether s is one of the canonical verdicts.
func (s ScriptStatus) Valid() bool {
	switch s {
	case ScriptComplete, ScriptPartial, ScriptNotUsed:
		return true
	}
	return false
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldLabel lowercases, strips accents and collapses whitespace so labels
// such as "NÃO  Verificável" and "nao verificavel" compare equal.
func foldLabel(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.Join(strings.Fields(folded), " "))
	return strings.Trim(folded, ".!;:\"'")
}
