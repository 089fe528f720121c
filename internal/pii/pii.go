// Package pii masks personal data in transcripts before they leave the
// process. Masking is best-effort: customer names are kept, and anything
// the patterns miss goes through unchanged.
package pii

import (
	"regexp"
	"sort"
)

type rule struct {
	label       string
	re          *regexp.Regexp
	replacement string
}

// Rules run in order; CNPJ precedes CPF and phone so the longer document
// number is not partially masked.
var rules = []rule{
	{"pii.email", regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)+`), "[EMAIL]"},
	{"pii.cnpj", regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`), "[CNPJ]"},
	{"pii.cpf", regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`), "[CPF]"},
	{"pii.phone", regexp.MustCompile(`(?:\+?55[\s-]?)?(?:\(\d{2}\)|\b\d{2})[\s-]?9?\d{4}[\s-]?\d{4}\b`), "[TELEFONE]"},
	{"pii.plate", regexp.MustCompile(`(?i)\b[a-z]{3}-?\d[a-z0-9]\d{2}\b`), "[PLACA]"},
}

// Result is a masked text plus the labels of the rules that fired.
type Result struct {
	Text   string
	Labels []string
}

// Mask replaces every match of every rule.
func Mask(text string) Result {
	hits := map[string]struct{}{}
	for _, r := range rules {
		if !r.re.MatchString(text) {
			continue
		}
		hits[r.label] = struct{}{}
		text = r.re.ReplaceAllLiteralString(text, r.replacement)
	}
	labels := make([]string, 0, len(hits))
	for l := range hits {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return Result{Text: text, Labels: labels}
}
