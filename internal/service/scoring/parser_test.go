package scoring

import (
	"strings"
	"testing"
)

func TestParseResponse_WellFormed(t *testing.T) {
	raw := "SCORE: 85\nJUSTIFICATION: Established consulting firm with matching domain.\nNEXT_ACTION: Schedule an intro call."

	parsed := ParseResponse(raw)
	if parsed.Score != 85 {
		t.Fatalf("expected score 85, got %d", parsed.Score)
	}
	if parsed.Justification != "Established consulting firm with matching domain." {
		t.Fatalf("unexpected justification: %q", parsed.Justification)
	}
	if parsed.NextAction != "Schedule an intro call." {
		t.Fatalf("unexpected next action: %q", parsed.NextAction)
	}
}

func TestParseResponse_Defaults(t *testing.T) {
	raw := "The model rambled on without using any of the required markers at all."

	parsed := ParseResponse(raw)
	if parsed.Score != 50 {
		t.Fatalf("expected default score 50, got %d", parsed.Score)
	}
	if parsed.Justification != raw {
		t.Fatalf("expected justification to fall back to raw text, got %q", parsed.Justification)
	}
	if parsed.NextAction != "Review lead and determine outreach strategy" {
		t.Fatalf("unexpected fallback next action: %q", parsed.NextAction)
	}
}

func TestParseResponse_FallbackJustificationTruncated(t *testing.T) {
	raw := strings.Repeat("x", 900)
	parsed := ParseResponse(raw)
	if len(parsed.Justification) != 400 {
		t.Fatalf("expected 400 char fallback justification, got %d", len(parsed.Justification))
	}
}

func TestParseResponse_ScoreClamped(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"above range", "SCORE: 250", 100},
		{"digits inside text", "SCORE: roughly 72 out of 100", 72},
		{"no digits", "SCORE: unknown", 50},
		{"zero", "SCORE: 0", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := ParseResponse(tc.raw)
			if parsed.Score != tc.want {
				t.Fatalf("expected score %d, got %d", tc.want, parsed.Score)
			}
			if parsed.Score < 0 || parsed.Score > 100 {
				t.Fatalf("score out of range: %d", parsed.Score)
			}
		})
	}
}

func TestParseResponse_JustificationStopsAtNextAction(t *testing.T) {
	raw := "SCORE: 60\nJUSTIFICATION: First sentence.\nSecond sentence continues.\nNEXT_ACTION: Call them.\n"

	parsed := ParseResponse(raw)
	if parsed.Justification != "First sentence. Second sentence continues." {
		t.Fatalf("unexpected justification: %q", parsed.Justification)
	}
	if parsed.NextAction != "Call them." {
		t.Fatalf("unexpected next action: %q", parsed.NextAction)
	}
}

// The NEXT_ACTION branch deliberately keeps absorbing every remaining line,
// even text that clearly does not belong to the action. That matches the
// behavior the product shipped with; change only with a requirements update.
func TestParseResponse_NextActionAbsorbsTrailingText(t *testing.T) {
	raw := "SCORE: 40\nJUSTIFICATION: Thin web presence.\nNEXT_ACTION: Send an email.\nP.S. ignore everything above."

	parsed := ParseResponse(raw)
	if parsed.NextAction != "Send an email. P.S. ignore everything above." {
		t.Fatalf("expected greedy trailing absorption, got %q", parsed.NextAction)
	}
}

func TestParseResponse_CapsAndWhitespace(t *testing.T) {
	raw := "SCORE: 55\nJUSTIFICATION: " + strings.Repeat("word ", 200) + "\nNEXT_ACTION: " + strings.Repeat("go  now\t", 100)

	parsed := ParseResponse(raw)
	if len(parsed.Justification) > 500 {
		t.Fatalf("justification exceeds cap: %d", len(parsed.Justification))
	}
	if len(parsed.NextAction) > 300 {
		t.Fatalf("next action exceeds cap: %d", len(parsed.NextAction))
	}
	if strings.Contains(parsed.NextAction, "  ") || strings.Contains(parsed.NextAction, "\t") {
		t.Fatalf("whitespace runs not collapsed: %q", parsed.NextAction)
	}
}
