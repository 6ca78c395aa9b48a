package program

import (
	"encoding/json"
	"strings"

	"github.com/myrjola/programsmith/internal/errors"
)

// ParseOutcome is the result of parsing a generator response. It is either [Parsed] or [ParseFailure].
type ParseOutcome interface {
	parseOutcome()
}

// Parsed carries a candidate that decoded cleanly. It has not been validated yet.
type Parsed struct {
	Candidate GeneratedProgram
}

// ParseFailure explains why a response could not be decoded into a candidate.
type ParseFailure struct {
	Reason string
	Err    error
}

func (Parsed) parseOutcome()       {}
func (ParseFailure) parseOutcome() {}

var (
	errEmptyResponse = errors.NewSentinel("empty response")
	errNoJSONObject  = errors.NewSentinel("no JSON object in response")
)

// ParseCandidate decodes a free-text generator response into a candidate program. Markdown code fences and any text
// around the outermost JSON object are ignored.
func ParseCandidate(text string) ParseOutcome {
	body := stripCodeFence(text)
	if strings.TrimSpace(body) == "" {
		return ParseFailure{Reason: "empty response", Err: errEmptyResponse}
	}
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start == -1 || end <= start {
		return ParseFailure{Reason: "no JSON object", Err: errNoJSONObject}
	}

	var candidate GeneratedProgram
	if err := json.Unmarshal([]byte(body[start:end+1]), &candidate); err != nil {
		return ParseFailure{Reason: "malformed JSON", Err: errors.Wrap(err, "unmarshal candidate")}
	}
	return Parsed{Candidate: candidate}
}

// stripCodeFence removes a leading ``` or ```json fence and the closing fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl != -1 {
		// Drop the info string, for example "json".
		s = s[nl+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
