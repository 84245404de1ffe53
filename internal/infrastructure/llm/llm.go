// Package llm defines the completion-service contract consumed by the
// pipeline stages, plus the response-cleaning helpers every implementation
// needs: language models wrap JSON in markdown fences or prefix it with
// prose, and callers must strip that before parsing the payload.
package llm

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/farmchain/soiladvisor/pkg/errors"
)

// CompletionClient is the contract for the external AI completion service.
// Implementations make no structural guarantees about model output beyond
// what these signatures promise: CompleteText returns raw text, CompleteJSON
// a parsed object. Both honor ctx cancellation and deadlines.
//
// The pipeline injects this interface into each stage constructor so tests
// can substitute canned or adversarial doubles.
type CompletionClient interface {
	// CompleteText returns the model's raw text completion for prompt.
	// Used only by the advisory stage; temperature is implementation-tuned
	// for controlled variability.
	CompleteText(ctx context.Context, prompt string) (string, error)

	// CompleteJSON returns the model's completion parsed as a JSON object.
	// Implementations strip markdown fences and surrounding prose before
	// parsing; a completion with no recoverable object yields an error with
	// CodeLLMMalformedJSON.
	CompleteJSON(ctx context.Context, prompt string) (map[string]interface{}, error)
}

var (
	fenceRe   = regexp.MustCompile("(?is)```(?:json)?\\s*")
	leadinRe  = regexp.MustCompile(`(?i)^\s*(here\s+is|here's|output|result|json|response)\s*:?\s*`)
	objectRe  = regexp.MustCompile(`(?s)\{.*\}`)
	urlNoise  = regexp.MustCompile(`https?://\S+`)
)

// Sanitize strips markdown fences, conversational lead-ins, and stray URLs
// from a raw completion, returning text safe to hand to a JSON parser.
func Sanitize(raw string) string {
	s := fenceRe.ReplaceAllString(raw, "")
	s = leadinRe.ReplaceAllString(s, "")
	s = urlNoise.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseObject extracts and unmarshals the first JSON object found in a raw
// completion. It sanitizes first, then attempts a direct parse, then falls
// back to the outermost {...} span. Failure returns CodeLLMMalformedJSON.
func ParseObject(raw string) (map[string]interface{}, error) {
	s := Sanitize(raw)
	if s == "" {
		return nil, errors.New(errors.CodeLLMMalformedJSON, "empty completion")
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return obj, nil
	}

	span := objectRe.FindString(s)
	if span == "" {
		return nil, errors.New(errors.CodeLLMMalformedJSON,
			"no JSON object in completion").WithDetail(truncate(s, 200))
	}
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, errors.Wrap(err, errors.CodeLLMMalformedJSON,
			"completion JSON does not parse")
	}
	return obj, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
