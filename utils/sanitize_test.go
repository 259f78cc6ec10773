package utils

import (
	"strings"
	"testing"
)

func TestSanitizeStripsTagsQuotesAndBrackets(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
	}{
		{"plain text untouched", "John Smith", "John Smith"},
		{"script tag removed", "<script>alert(1)</script>John", "alert(1)John"},
		{"quotes removed", `O'Brien said "hi"`, "OBrien said hi"},
		{"bracketed span removed", "a < b > c", "a  c"},
		{"lone bracket removed", "a < b", "a  b"},
		{"whitespace trimmed", "  unit 4B  ", "unit 4B"},
		{"empty stays empty", "", ""},
		{"unclosed tag", "<b>bold", "bold"},
	}
	for _, tc := range cases {
		got := Sanitize(tc.in)
		if got != tc.want {
			t.Errorf("%s: Sanitize(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestSanitizeOutputNeverContainsDangerousChars(t *testing.T) {
	inputs := []string{
		"<div onclick='x'>text</div>",
		`"quoted" <i>and</i> 'single'`,
		"<<nested>> <a href=\"x\">link</a>",
	}
	for _, in := range inputs {
		got := Sanitize(in)
		if strings.ContainsAny(got, `<>'"`) {
			t.Errorf("Sanitize(%q) = %q still contains a dangerous character", in, got)
		}
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"John Smith",
		"<script>x</script> 'y' \"z\"",
		"  spaced  ",
		"a < b",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
