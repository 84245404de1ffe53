// Package extractor turns raw OCR-derived lab report text into structured
// soil readings. Deterministic regex patterns run first; an AI fallback is
// consulted only for parameters regex could not find, and any value it
// returns must literally reoccur in the normalized text before acceptance.
// A reading is never invented: "missing" is the only sanctioned no-data state.
package extractor

import (
	"context"
	"strconv"
	"strings"

	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
	"github.com/farmchain/soiladvisor/internal/infrastructure/llm"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
	"github.com/farmchain/soiladvisor/internal/intelligence/safety"
	"github.com/farmchain/soiladvisor/pkg/errors"
)

const (
	SourceReport  = "report"
	SourceMissing = "missing"
)

// Reading is one extracted soil parameter. Invariant: Value is non-nil
// exactly when Source is "report".
type Reading struct {
	Value         *float64 `json:"value"`
	Unit          string   `json:"unit"`
	Source        string   `json:"source"`
	UnitUncertain bool     `json:"unit_uncertain"`
}

// Measured reports whether the reading carries a value from the report.
func (r Reading) Measured() bool {
	return r.Value != nil && r.Source == SourceReport
}

// Readings maps every known parameter to its reading. All five parameters
// are always present; absent data is a missing reading, not an absent key.
type Readings map[agronomy.Parameter]Reading

// Measured returns the parameters with report-sourced values, in canonical
// order.
func (rs Readings) Measured() []agronomy.Parameter {
	var out []agronomy.Parameter
	for _, p := range agronomy.Parameters {
		if rs[p].Measured() {
			out = append(out, p)
		}
	}
	return out
}

// Missing returns the parameters without report-sourced values, in canonical
// order.
func (rs Readings) Missing() []agronomy.Parameter {
	var out []agronomy.Parameter
	for _, p := range agronomy.Parameters {
		if !rs[p].Measured() {
			out = append(out, p)
		}
	}
	return out
}

// Extractor extracts readings from report text. client may be nil, which
// disables the AI fallback and leaves regex-only extraction.
type Extractor struct {
	client llm.CompletionClient
	logger logging.Logger
}

func New(client llm.CompletionClient, logger logging.Logger) *Extractor {
	return &Extractor{client: client, logger: logger.Named("extractor")}
}

// Extract never fails on "nothing found": an all-missing result is valid and
// flows downstream. The returned error is reserved for context cancellation.
func (e *Extractor) Extract(ctx context.Context, rawText string) (Readings, error) {
	normalized := NormalizeText(rawText)

	readings := make(Readings, len(agronomy.Parameters))
	for _, p := range agronomy.Parameters {
		readings[p] = Reading{Source: SourceMissing}
	}

	for _, p := range agronomy.Parameters {
		if reading, ok := matchParameter(p, normalized); ok {
			readings[p] = reading
			e.logger.Debug("parameter matched",
				logging.String("parameter", string(p)),
				logging.Float64("value", *reading.Value),
				logging.Bool("unit_uncertain", reading.UnitUncertain))
		}
	}

	missing := readings.Missing()
	if len(missing) > 0 && e.client != nil && strings.TrimSpace(normalized) != "" {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeTimeout, "extraction cancelled")
		}
		e.fallback(ctx, normalized, missing, readings)
	}

	return readings, nil
}

// fallback asks the AI to extract the parameters regex missed. Acceptance is
// strict: the source tag must be report or missing, and a non-nil value must
// literally reoccur in the normalized text. Anything else stays missing.
func (e *Extractor) fallback(ctx context.Context, normalized string, missing []agronomy.Parameter, readings Readings) {
	result, err := e.client.CompleteJSON(ctx, extractionPrompt(normalized))
	if err != nil {
		e.logger.Warn("extraction fallback unavailable", logging.Err(err))
		return
	}
	if err := safety.CheckJSON(result, "extraction", nil); err != nil {
		e.logger.Warn("extraction fallback rejected", logging.Err(err))
		return
	}

	params, ok := result["extracted_parameters"].(map[string]interface{})
	if !ok {
		return
	}

	wanted := make(map[agronomy.Parameter]bool, len(missing))
	for _, p := range missing {
		wanted[p] = true
	}

	for name, raw := range params {
		p, ok := agronomy.ParseParameter(name)
		if !ok || !wanted[p] {
			continue
		}
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		reading, err := e.verify(p, entry, normalized)
		if err != nil {
			e.logger.Warn("extraction fallback value discarded",
				logging.String("parameter", string(p)),
				logging.Err(err))
			continue
		}
		if reading.Measured() {
			readings[p] = reading
		}
	}
}

// verify enforces the acceptance rules on one AI-supplied entry.
func (e *Extractor) verify(p agronomy.Parameter, entry map[string]interface{}, normalized string) (Reading, error) {
	source, _ := entry["source"].(string)
	if source != SourceReport && source != SourceMissing {
		return Reading{}, errors.Newf(errors.CodeExtractionBadSource,
			"%s has source %q; only report or missing are valid", p, source)
	}

	rawValue, hasValue := entry["value"]
	if rawValue == nil {
		hasValue = false
	}
	if !hasValue {
		return Reading{Source: SourceMissing}, nil
	}
	if source != SourceReport {
		return Reading{}, errors.Newf(errors.CodeExtractionBadSource,
			"%s has a value with source %q; the AI may have generated it", p, source)
	}

	value, ok := rawValue.(float64)
	if !ok {
		return Reading{}, errors.Newf(errors.CodeExtractionUnverified,
			"%s value is not numeric", p)
	}
	if !agronomy.Plausible(p, value) {
		return Reading{}, errors.Newf(errors.CodeExtractionUnverified,
			"%s value %v is outside the plausible range", p, value)
	}
	if !literallyPresent(value, normalized) {
		return Reading{}, errors.Newf(errors.CodeExtractionUnverified,
			"%s value %v does not appear in the report text", p, value)
	}

	unit, _ := entry["unit"].(string)
	unitUncertain, _ := entry["unit_uncertain"].(bool)
	if unit == "" && p.Unit() != "" {
		unit = p.Unit()
		unitUncertain = true
	}
	return Reading{
		Value:         &value,
		Unit:          unit,
		Source:        SourceReport,
		UnitUncertain: unitUncertain,
	}, nil
}

// literallyPresent checks that the numeric value reoccurs as a substring of
// the normalized text, trying the renderings a lab report would use.
func literallyPresent(value float64, normalized string) bool {
	candidates := []string{strconv.FormatFloat(value, 'f', -1, 64)}
	if value == float64(int64(value)) {
		candidates = append(candidates,
			strconv.FormatFloat(value, 'f', 1, 64), // "120.0"
		)
	}
	for _, c := range candidates {
		if strings.Contains(normalized, c) {
			return true
		}
	}
	return false
}
