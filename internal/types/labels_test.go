package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Response
	}{
		{"Sim", ResponseYes},
		{"SIM.", ResponseYes},
		{"yes", ResponseYes},
		{"Parcial", ResponsePartial},
		{"parcialmente", ResponsePartial},
		{"Partial", ResponsePartial},
		{"Não", ResponseNo},
		{"nao", ResponseNo},
		{"NO", ResponseNo},
		{"Não verificável", ResponseNotVerifiable},
		{"NÃO  VERIFICAVEL", ResponseNotVerifiable},
		{"Não se aplica", ResponseNotVerifiable},
		{"N/A", ResponseNotVerifiable},
		{"", ResponseNotVerifiable},
		{"talvez", ResponseNotVerifiable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseResponse(tt.in))
		})
	}
}

func TestParseResponse_CanonicalLabelsRoundTrip(t *testing.T) {
	t.Parallel()

	for _, r := range []Response{ResponseYes, ResponsePartial, ResponseNo, ResponseNotVerifiable} {
		assert.True(t, r.Valid())
		assert.Equal(t, r, ParseResponse(string(r)))
	}
	assert.False(t, Response("Talvez").Valid())
}

func TestParseTemperature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   Temperature
		wantOK bool
	}{
		{"Calma", TemperatureCalm, true},
		{"tranquila", TemperatureCalm, true},
		{"Neutra", TemperatureNeutral, true},
		{"neutro", TemperatureNeutral, true},
		{"Tensa", TemperatureTense, true},
		{"Muito Tensa", TemperatureVeryTense, true},
		{"very tense", TemperatureVeryTense, true},
		{"furiosa", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseTemperature(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, c := range Temperatures {
		got, ok := ParseTemperature(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
}

func TestParseScriptStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   ScriptStatus
		wantOK bool
	}{
		{"Completo", ScriptComplete, true},
		{"utilizado", ScriptComplete, true},
		{"Parcial", ScriptPartial, true},
		{"Não utilizado", ScriptNotUsed, true},
		{"nao", ScriptNotUsed, true},
		{"", "", false},
		{"???", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseScriptStatus(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluation_AnyDisqualified(t *testing.T) {
	t.Parallel()

	ev := Evaluation{Disqualifying: []DisqualifyingCheck{{Criterion: "a"}, {Criterion: "b"}}}
	assert.False(t, ev.AnyDisqualified())

	ev.Disqualifying[1].Occurred = true
	assert.True(t, ev.AnyDisqualified())
}
