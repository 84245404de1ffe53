// Package categorizer is the enforcement core of the pipeline. Measured
// readings are categorized from the threshold table before any AI call and
// locked; the AI classifies missing parameters only. Whatever the AI returns
// for a locked parameter is unconditionally overwritten afterwards, and a
// final consistency assertion guards the whole pass. An LLM cannot be
// trusted to echo back a provided fact, so its output for measured
// parameters is treated as noise to discard, not input to merge.
package categorizer

import (
	"context"

	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
	"github.com/farmchain/soiladvisor/internal/infrastructure/llm"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
	"github.com/farmchain/soiladvisor/internal/intelligence/extractor"
	"github.com/farmchain/soiladvisor/internal/intelligence/safety"
	"github.com/farmchain/soiladvisor/pkg/errors"
)

const (
	// Inferred confidence is clamped to this band; anything the AI claims
	// outside it is distrusted by construction.
	minInferredConfidence = 0.5
	maxInferredConfidence = 0.8
)

// Entry is one parameter's classification.
type Entry struct {
	Category   agronomy.Category `json:"category"`
	Confidence float64           `json:"confidence"`
}

// Profile maps every parameter to its classification. All five parameters
// are always present; Unknown with confidence 0 is the no-data state.
type Profile map[agronomy.Parameter]Entry

// Category returns the category for p, Unknown when absent.
func (pr Profile) Category(p agronomy.Parameter) agronomy.Category {
	if e, ok := pr[p]; ok {
		return e.Category
	}
	return agronomy.CategoryUnknown
}

// Classifier computes category profiles. client may be nil, in which case
// missing parameters simply stay Unknown.
type Classifier struct {
	client llm.CompletionClient
	logger logging.Logger
}

func New(client llm.CompletionClient, logger logging.Logger) *Classifier {
	return &Classifier{client: client, logger: logger.Named("categorizer")}
}

// Classify runs the three-step protocol: pre-compute locked categories for
// measured readings, let the AI infer the missing ones, then enforce the
// locked set over whatever came back. The returned error is either a
// cancelled context or a hard invariant violation; AI failure merely leaves
// missing parameters Unknown.
func (c *Classifier) Classify(ctx context.Context, readings extractor.Readings, district, soilType, irrigation string) (Profile, error) {
	profile := make(Profile, len(agronomy.Parameters))
	for _, p := range agronomy.Parameters {
		profile[p] = Entry{Category: agronomy.CategoryUnknown, Confidence: 0}
	}

	// Step 1: lock measured parameters from the threshold table, before
	// any AI involvement.
	locked := make(Profile)
	for _, p := range readings.Measured() {
		value := *readings[p].Value
		category, confidence, err := agronomy.Categorize(p, value)
		if err != nil {
			// Out-of-domain measured value: plausibility filtering should
			// have caught it, so log loudly but degrade to Unknown rather
			// than fail the analysis.
			c.logger.Warn("measured value not categorizable",
				logging.String("parameter", string(p)),
				logging.Float64("value", value),
				logging.Err(err))
			continue
		}
		locked[p] = Entry{Category: category, Confidence: confidence}
		profile[p] = locked[p]
	}

	// Step 2: AI classifies missing parameters only. The locked pH entry is
	// passed for context and must come back unchanged, but nothing depends
	// on the model obeying.
	missing := readings.Missing()
	if len(missing) > 0 && c.client != nil {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeTimeout, "classification cancelled")
		}
		c.inferMissing(ctx, readings, locked, missing, district, soilType, irrigation, profile)
	}

	// Step 3: unconditional post-hoc override. Not a fallback; the AI's
	// output for locked parameters is discarded no matter what it said.
	for p, entry := range locked {
		profile[p] = entry
	}

	if err := c.assertConsistent(readings, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Classifier) inferMissing(ctx context.Context, readings extractor.Readings, locked Profile, missing []agronomy.Parameter, district, soilType, irrigation string, profile Profile) {
	prompt, err := classificationPrompt(readings, locked, district, soilType, irrigation)
	if err != nil {
		c.logger.Warn("classification prompt build failed", logging.Err(err))
		return
	}

	result, err := c.client.CompleteJSON(ctx, prompt)
	if err != nil {
		c.logger.Warn("classification unavailable, missing parameters stay unknown", logging.Err(err))
		return
	}
	if err := safety.CheckJSON(result, "classification", nil); err != nil {
		c.logger.Warn("classification rejected", logging.Err(err))
		return
	}

	soilProfile, ok := result["soil_profile"].(map[string]interface{})
	if !ok {
		c.logger.Warn("classification response missing soil_profile")
		return
	}

	wanted := make(map[agronomy.Parameter]bool, len(missing))
	for _, p := range missing {
		wanted[p] = true
	}

	for name, raw := range soilProfile {
		p, ok := agronomy.ParseParameter(name)
		if !ok || !wanted[p] {
			continue
		}
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		rawCategory, _ := entry["category"].(string)
		category := agronomy.NormalizeCategory(p, rawCategory)
		if category == agronomy.CategoryUnknown {
			continue
		}

		confidence := minInferredConfidence
		if f, ok := entry["confidence"].(float64); ok {
			confidence = clampConfidence(f)
		}
		profile[p] = Entry{Category: category, Confidence: confidence}
		c.logger.Debug("parameter inferred",
			logging.String("parameter", string(p)),
			logging.String("category", string(category)),
			logging.Float64("confidence", confidence))
	}
}

// assertConsistent is the final consistency check: every measured parameter
// must carry its threshold category. A violation means an enforcement bug,
// never routine control flow.
func (c *Classifier) assertConsistent(readings extractor.Readings, profile Profile) error {
	for _, p := range readings.Measured() {
		value := *readings[p].Value
		expected, _, err := agronomy.Categorize(p, value)
		if err != nil {
			continue
		}
		got := profile.Category(p)
		if got != expected {
			return errors.Newf(errors.CodeCategorizationInvariant,
				"measured %s = %v must be %q, got %q", p, value, expected, got)
		}
		if got == agronomy.CategoryUnknown {
			return errors.Newf(errors.CodeCategorizationInvariant,
				"measured %s = %v resolved to Unknown", p, value)
		}
	}
	return nil
}

func clampConfidence(f float64) float64 {
	if f < minInferredConfidence {
		return minInferredConfidence
	}
	if f > maxInferredConfidence {
		return maxInferredConfidence
	}
	return f
}
