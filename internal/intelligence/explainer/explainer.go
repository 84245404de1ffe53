// Package explainer turns a category profile into farmer-facing text. The
// summary is assembled from fixed sentence rules with no AI involvement; the
// AI contributes only the optional advisory layer, which is validated and
// replaced by a deterministic bilingual fallback whenever it fails.
package explainer

import (
	"context"
	"fmt"
	"strings"

	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
	"github.com/farmchain/soiladvisor/internal/infrastructure/llm"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
	"github.com/farmchain/soiladvisor/internal/intelligence/categorizer"
	"github.com/farmchain/soiladvisor/internal/intelligence/recommender"
	"github.com/farmchain/soiladvisor/pkg/errors"
)

// Explanation is always returned with a summary and a disclaimer; the
// advisory is present whenever one could be produced or faked.
type Explanation struct {
	Language   string `json:"language"`
	Summary    string `json:"summary"`
	Disclaimer string `json:"disclaimer"`
	Advisory   string `json:"advisory,omitempty"`
}

// Explainer assembles explanations. client may be nil; the advisory then
// always comes from the fallback template.
type Explainer struct {
	client llm.CompletionClient
	logger logging.Logger
}

func New(client llm.CompletionClient, logger logging.Logger) *Explainer {
	return &Explainer{client: client, logger: logger.Named("explainer")}
}

// Explain builds the full explanation: deterministic summary, disclaimer in
// the requested language, and an advisory. The summary is a pure function of
// the profile; a contradiction between summary text and profile categories
// is a hard error, never silently corrected.
func (e *Explainer) Explain(ctx context.Context, profile categorizer.Profile, rec *recommender.Recommendation, district string, season agronomy.Season, irrigation, language string) (*Explanation, error) {
	if len(profile) == 0 {
		return nil, errors.New(errors.CodeMissingProfile,
			"soil profile missing, explanation must be grounded on the profile")
	}

	summary, err := Summarize(profile, district, season, irrigation)
	if err != nil {
		return nil, err
	}

	advisory := e.advisory(ctx, profile, rec, district, season, irrigation, language)
	if advisory == "" {
		advisory = fallbackAdvisory(rec, season, irrigation, language)
	}

	return &Explanation{
		Language:   language,
		Summary:    summary,
		Disclaimer: agronomy.Disclaimer(language),
		Advisory:   advisory,
	}, nil
}

// Summarize assembles the rule-based summary. Each parameter contributes a
// fixed sentence keyed on its category; nothing here reads recommendation
// data, so the summary can never echo fertilizer ranges as soil facts.
func Summarize(profile categorizer.Profile, district string, season agronomy.Season, irrigation string) (string, error) {
	var parts []string

	if c := profile.Category(agronomy.ParamPH); c != agronomy.CategoryUnknown {
		parts = append(parts, fmt.Sprintf("Soil pH is %s.", lower(c)))
	} else {
		parts = append(parts, "Soil pH data is not available. Soil testing is recommended.")
	}

	nitrogen := profile.Category(agronomy.ParamNitrogen)
	switch nitrogen {
	case agronomy.CategoryUnknown:
		parts = append(parts, "Nitrogen data is not available. Soil testing is recommended.")
	default:
		parts = append(parts, fmt.Sprintf("Nitrogen levels are %s.", lower(nitrogen)))
		if nitrogen == agronomy.CategoryLow {
			parts = append(parts, "Nutrient supplementation is required to improve soil fertility.")
		} else if nitrogen == agronomy.CategoryHigh {
			parts = append(parts, "Nitrogen levels are sufficient for crop growth.")
		}
	}

	switch profile.Category(agronomy.ParamPhosphorus) {
	case agronomy.CategoryLow:
		parts = append(parts, "Phosphorus levels are low and may require supplementation.")
	case agronomy.CategoryHigh:
		parts = append(parts, "Phosphorus levels are adequate.")
	}

	switch profile.Category(agronomy.ParamPotassium) {
	case agronomy.CategoryLow:
		parts = append(parts, "Potassium levels are low and may require supplementation.")
	case agronomy.CategoryHigh:
		parts = append(parts, "Potassium levels are adequate.")
	}

	switch profile.Category(agronomy.ParamOrganicCarbon) {
	case agronomy.CategoryPoor:
		parts = append(parts, "Soil organic carbon is poor, indicating low fertility. Soil improvement is advised.")
	case agronomy.CategoryModerate:
		parts = append(parts, "Soil organic carbon is moderate.")
	case agronomy.CategoryRich:
		parts = append(parts, "Soil organic carbon is rich, indicating good fertility.")
	}

	parts = append(parts, fmt.Sprintf("This recommendation is for %s season with %s irrigation in %s district.",
		strings.ToLower(string(season)), strings.ToLower(irrigation), district))

	summary := strings.Join(parts, " ")

	// Cross-check: a Low nitrogen profile whose summary mentions medium
	// nitrogen means the sentence rules read the wrong source.
	summaryLower := strings.ToLower(summary)
	if nitrogen == agronomy.CategoryLow &&
		strings.Contains(summaryLower, "medium") && strings.Contains(summaryLower, "nitrogen") {
		return "", errors.Newf(errors.CodeSummaryContradiction,
			"summary contradicts nitrogen category %q", nitrogen)
	}

	return summary, nil
}

// MinimalSummary is the degraded summary used when full explanation
// generation is impossible but pH and Nitrogen categories are known.
func MinimalSummary(profile categorizer.Profile) string {
	ph := profile.Category(agronomy.ParamPH)
	nitrogen := profile.Category(agronomy.ParamNitrogen)
	if ph == agronomy.CategoryUnknown || nitrogen == agronomy.CategoryUnknown {
		return ""
	}
	return fmt.Sprintf("Soil pH is %s. Nitrogen levels are %s.", lower(ph), lower(nitrogen))
}

// fallbackAdvisory renders the deterministic bilingual advisory used when
// the AI advisory is unavailable or was discarded by validation.
func fallbackAdvisory(rec *recommender.Recommendation, season agronomy.Season, irrigation, language string) string {
	crops := "suitable crops"
	if agronomy.IsMarathi(language) {
		crops = "योग्य पिके"
	}
	if rec != nil && len(rec.Primary) > 0 {
		crops = strings.Join(rec.Primary, ", ")
	}

	if agronomy.IsMarathi(language) {
		return fmt.Sprintf("या मातीच्या परिस्थितीत %s पिके लागवण्याची शिफारस केली जाते. %s हंगामात %s सिंचनासह या पिकांची लागवड करावी.",
			crops, season, irrigation)
	}
	return fmt.Sprintf("Based on the soil conditions, %s are recommended for cultivation. These crops should be grown during the %s season with %s irrigation.",
		crops, season, irrigation)
}

func lower(c agronomy.Category) string {
	return strings.ToLower(string(c))
}
