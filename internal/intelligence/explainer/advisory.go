package explainer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
	"github.com/farmchain/soiladvisor/internal/intelligence/categorizer"
	"github.com/farmchain/soiladvisor/internal/intelligence/recommender"
)

// advisoryForbidden rejects numeric soil values in the free-text advisory.
var advisoryForbidden = []*regexp.Regexp{
	regexp.MustCompile(`ph\s+(?:is|=|:)\s+\d+\.?\d*`),
	regexp.MustCompile(`\d{2,}\s*(?:kg/ha|kg/acre)`),
	regexp.MustCompile(`nitrogen\s+(?:is|=|:)\s+\d+`),
	regexp.MustCompile(`phosphorus\s+(?:is|=|:)\s+\d+`),
	regexp.MustCompile(`potassium\s+(?:is|=|:)\s+\d+`),
}

var (
	leadingNoiseRe = regexp.MustCompile(`(?i)^(here\s+is|here'?s|advisory|output|result)[\s:]*`)
	fencedBlockRe  = regexp.MustCompile("(?s)```.*?```")
	wordRe         = regexp.MustCompile(`[A-Za-z]+`)
)

// advisory asks the text-profile model for a farmer-friendly advisory and
// runs the validation battery over the result. Any failure, including a
// transport error, yields "" so the caller falls back; the core summary
// never depends on this path.
func (e *Explainer) advisory(ctx context.Context, profile categorizer.Profile, rec *recommender.Recommendation, district string, season agronomy.Season, irrigation, language string) string {
	if e.client == nil || rec == nil {
		return ""
	}

	prompt := advisoryPrompt(profile, rec, district, season, irrigation, language)
	text, err := e.client.CompleteText(ctx, prompt)
	if err != nil {
		e.logger.Warn("advisory generation failed", logging.Err(err))
		return ""
	}

	text = cleanAdvisory(text)
	if text == "" {
		return ""
	}

	if reason := e.validateAdvisory(text, profile, rec.Primary); reason != "" {
		e.logger.Warn("advisory discarded", logging.String("reason", reason))
		return ""
	}
	return text
}

func cleanAdvisory(text string) string {
	text = strings.TrimSpace(text)
	text = leadingNoiseRe.ReplaceAllString(text, "")
	text = fencedBlockRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// validateAdvisory returns an empty string when the advisory is acceptable,
// otherwise the reason for discarding it.
func (e *Explainer) validateAdvisory(text string, profile categorizer.Profile, crops []string) string {
	lowerText := strings.ToLower(text)

	for _, pattern := range advisoryForbidden {
		if match := pattern.FindString(lowerText); match != "" {
			return fmt.Sprintf("numeric soil value %q", match)
		}
	}

	nitrogen := profile.Category(agronomy.ParamNitrogen)
	if nitrogen == agronomy.CategoryLow {
		if strings.Contains(lowerText, "medium") && strings.Contains(lowerText, "nitrogen") {
			return "claims medium nitrogen for a Low profile"
		}
		for _, phrase := range []string{"high nitrogen", "sufficient nitrogen", "adequate nitrogen"} {
			if strings.Contains(lowerText, phrase) {
				return fmt.Sprintf("claims %q for a Low profile", phrase)
			}
		}
	}

	if profile.Category(agronomy.ParamPH) == agronomy.CategoryNeutral {
		if strings.Contains(lowerText, "soil is acidic") || strings.Contains(lowerText, "soil is alkaline") {
			return "contradicts neutral pH"
		}
	}

	// Crop adherence: a known crop name outside the recommended set means
	// the model invented an alternative.
	if len(crops) > 0 {
		recommended := make(map[string]bool, len(crops))
		for _, c := range crops {
			recommended[strings.ToLower(c)] = true
		}
		for _, word := range wordRe.FindAllString(lowerText, -1) {
			if knownCropWords[word] && !recommended[word] {
				return fmt.Sprintf("mentions crop %q outside the recommended list", word)
			}
		}
	}

	return ""
}

// knownCropWords indexes the single-word crop names for the adherence scan.
// Multi-word crops ("Bitter Gourd") cannot collide with a single-word scan
// and are left out.
var knownCropWords = func() map[string]bool {
	out := make(map[string]bool)
	for _, crop := range agronomy.KnownCrops() {
		if !strings.Contains(crop, " ") {
			out[strings.ToLower(crop)] = true
		}
	}
	return out
}()

func advisoryPrompt(profile categorizer.Profile, rec *recommender.Recommendation, district string, season agronomy.Season, irrigation, language string) string {
	cropList := "None"
	if len(rec.Primary) > 0 {
		cropList = strings.Join(rec.Primary, ", ")
	}
	languageName := "English"
	if agronomy.IsMarathi(language) {
		languageName = "Marathi"
	}

	ph := profile.Category(agronomy.ParamPH)
	nitrogen := profile.Category(agronomy.ParamNitrogen)
	organicCarbon := profile.Category(agronomy.ParamOrganicCarbon)

	return fmt.Sprintf(`You are an agriculture advisory assistant for Maharashtra, India farmers.

YOUR ROLE: Provide friendly, practical farming guidance based ONLY on the data provided below.

PROVIDED DATA (READ-ONLY - DO NOT MODIFY):
- Soil pH Category: %s
- Soil Nitrogen Category: %s
- Organic Carbon Category: %s
- Recommended Crops: %s
- Season: %s
- Irrigation: %s
- District: %s
- Language: %s

CRITICAL CONSTRAINTS (MANDATORY - NEVER VIOLATE):

1. NO NUMERIC SOIL VALUES:
   - NEVER mention pH values like "7.2" or "6.5"
   - NEVER mention nutrient amounts like "150 kg/ha" or "200 kg/acre"
   - Use ONLY the categories above

2. NO NEW INTERPRETATIONS:
   - DO NOT infer additional soil properties
   - DO NOT contradict the categories above
   - DO NOT suggest crops not in the recommended list
   - DO NOT change the season or irrigation type

3. CROP ADHERENCE:
   - Mention ONLY these crops: %s
   - DO NOT suggest alternative crops
   - DO NOT mention crops from other seasons

4. NO EXACT QUANTITIES:
   - DO NOT provide exact fertilizer amounts
   - Use descriptive terms: "moderate", "adequate", "light", "heavy"

YOUR TASK:
Write a friendly 2-4 sentence advisory in %s that:
- Explains what the soil conditions mean for the farmer
- Mentions the recommended crops and why they are suitable
- Provides practical next steps
- Uses simple, farmer-friendly language

OUTPUT:
- Return ONLY the advisory text
- NO markdown, NO JSON, NO formatting
- Start directly with the advisory
- Keep it concise and actionable

Generate the advisory now:`,
		ph, nitrogen, organicCarbon, cropList, season, irrigation, district, languageName,
		cropList, languageName)
}
