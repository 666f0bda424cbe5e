package store

import "testing"

func TestQuote_EmptyBecomesNull(t *testing.T) {
	if got := Quote(""); got != "null" {
		t.Errorf("Quote(%q) = %q, want null", "", got)
	}
}

func TestQuote_DoublesSingleQuotes(t *testing.T) {
	if got := Quote("it's"); got != "'it''s'" {
		t.Errorf("Quote(%q) = %q, want %q", "it's", got, "'it''s'")
	}
}

func TestQuote_StripsUnprintable(t *testing.T) {
	if got := Quote("a\x01b\x7fc"); got != "'abc'" {
		t.Errorf("Quote stripped wrong: got %q, want %q", got, "'abc'")
	}
}

func TestQuote_TabAndNewlineSurvive(t *testing.T) {
	if got := Quote("a\tb\nc"); got != "'a\tb\nc'" {
		t.Errorf("Quote mangled tab/newline: got %q", got)
	}
}

func TestQuote_PlainString(t *testing.T) {
	if got := Quote("ls -la"); got != "'ls -la'" {
		t.Errorf("Quote(%q) = %q", "ls -la", got)
	}
}
