package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultScore      = 50
	fallbackAction    = "Review lead and determine outreach strategy"
	maxJustification  = 500
	maxNextAction     = 300
	rawFallbackChars  = 400
)

var digitRunPattern = regexp.MustCompile(`\d+`)

// ParsedResponse holds the fields extracted from a model response.
type ParsedResponse struct {
	Score         int
	Justification string
	NextAction    string
}

// ParseResponse extracts SCORE/JUSTIFICATION/NEXT_ACTION from free-text model
// output. Missing or malformed markers resolve to defaults, the score is
// clamped to [0,100] and whitespace runs are collapsed. It never fails.
func ParseResponse(raw string) ParsedResponse {
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	var (
		score         *int
		justification string
		nextAction    string
	)

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "SCORE:"):
			remainder := strings.TrimSpace(strings.TrimPrefix(line, "SCORE:"))
			if digits := digitRunPattern.FindString(remainder); digits != "" {
				if n, err := strconv.Atoi(digits); err == nil {
					score = &n
				}
			}
		case strings.HasPrefix(line, "JUSTIFICATION:"):
			justification = strings.TrimSpace(strings.TrimPrefix(line, "JUSTIFICATION:"))
			for _, next := range lines[i+1:] {
				if strings.HasPrefix(next, "NEXT_ACTION:") {
					break
				}
				justification += " " + strings.TrimSpace(next)
			}
		case strings.HasPrefix(line, "NEXT_ACTION:"):
			nextAction = strings.TrimSpace(strings.TrimPrefix(line, "NEXT_ACTION:"))
			// Absorbs everything through the end of the response, even
			// unrelated trailing text. Known quirk of the shipped parser;
			// see TestParseResponse_NextActionAbsorbsTrailingText.
			for _, next := range lines[i+1:] {
				nextAction += " " + strings.TrimSpace(next)
			}
		}
	}

	result := ParsedResponse{Score: defaultScore}
	if score != nil {
		result.Score = *score
	}
	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}

	if justification == "" {
		justification = truncateRunes(raw, rawFallbackChars)
	}
	if nextAction == "" {
		nextAction = fallbackAction
	}

	result.Justification = truncateRunes(collapseWhitespace(justification), maxJustification)
	result.NextAction = truncateRunes(collapseWhitespace(nextAction), maxNextAction)
	return result
}
