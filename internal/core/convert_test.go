package core

import "testing"

// ----------------------------------------------------------------------------
// CleanCell Tests
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain value", input: "Lusaka", want: "Lusaka"},
		{name: "surrounding whitespace", input: "  Lusaka \t", want: "Lusaka"},
		{name: "excel formula prefix", input: `="00123"`, want: "00123"},
		{name: "double quotes", input: `"Mary"`, want: "Mary"},
		{name: "single quotes", input: `'Mary'`, want: "Mary"},
		{name: "nested quotes", input: `""Mary""`, want: "Mary"},
		{name: "quoted with inner spaces", input: `" Mary "`, want: "Mary"},
		{name: "mismatched quotes kept", input: `"Mary'`, want: `"Mary'`},
		{name: "lone quote kept", input: `"`, want: `"`},
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCell(tt.input)
			if got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := CleanCell(got); again != got {
				t.Errorf("CleanCell not idempotent: %q -> %q", got, again)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Boolean Tests
// ----------------------------------------------------------------------------

func TestParseLooseBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{" Yes ", true},
		{"1", true},
		{"false", false},
		{"no", false},
		{"0", false},
		{"y", false},
		{"t", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLooseBool(tt.input); got != tt.want {
				t.Errorf("ParseLooseBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input     string
		wantValue bool
		wantOK    bool
	}{
		{"true", true, true},
		{"Y", true, true},
		{"t", true, true},
		{"no", false, true},
		{"F", false, true},
		{"0", false, true},
		{"", false, false},
		{"attended", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, ok := ParseBool(tt.input)
			if value != tt.wantValue || ok != tt.wantOK {
				t.Errorf("ParseBool(%q) = (%v, %v), want (%v, %v)", tt.input, value, ok, tt.wantValue, tt.wantOK)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Sequence Number Tests
// ----------------------------------------------------------------------------

func TestParseSequence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "integer", input: "12", want: 12},
		{name: "integral float", input: "3.0", want: 3},
		{name: "formula prefix", input: `="7"`, want: 7},
		{name: "padded", input: "  4 ", want: 4},
		{name: "empty", input: "", want: 0},
		{name: "fraction", input: "2.5", want: 0},
		{name: "zero", input: "0", want: 0},
		{name: "negative", input: "-3", want: 0},
		{name: "text", input: "abc", want: 0},
		{name: "nan", input: "NaN", want: 0},
		{name: "infinity", input: "Inf", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSequence(tt.input); got != tt.want {
				t.Errorf("ParseSequence(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSequence(t *testing.T) {
	if got := FormatSequence(0); got != "" {
		t.Errorf("FormatSequence(0) = %q, want empty", got)
	}
	if got := FormatSequence(42); got != "42" {
		t.Errorf("FormatSequence(42) = %q, want %q", got, "42")
	}
}

func TestFormatBool(t *testing.T) {
	if FormatBool(true) != "TRUE" || FormatBool(false) != "FALSE" {
		t.Errorf("FormatBool rendered %q/%q", FormatBool(true), FormatBool(false))
	}
}

// ----------------------------------------------------------------------------
// Header Tests
// ----------------------------------------------------------------------------

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{" Name ", "DISTRICT", "", "name", `"Province"`, "Day  1"})

	tests := []struct {
		key  string
		want int
	}{
		{"name", 0},
		{"district", 1},
		{"province", 4},
		{"day 1", 5},
	}
	for _, tt := range tests {
		got, ok := idx[tt.key]
		if !ok || got != tt.want {
			t.Errorf("idx[%q] = %d (ok=%v), want %d", tt.key, got, ok, tt.want)
		}
	}
	if _, ok := idx[""]; ok {
		t.Error("blank header should not be indexed")
	}
}
