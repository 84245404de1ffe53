// Package recommender produces crop, fertilizer, and equipment guidance from
// a category profile. The AI only ever sees categories, never measured
// values, and its output passes a deterministic season filter and fertility
// filter before anything leaves this package. Recommendations are
// guideline-level suggestions, not prescriptions.
package recommender

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
	"github.com/farmchain/soiladvisor/internal/infrastructure/llm"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
	"github.com/farmchain/soiladvisor/internal/intelligence/categorizer"
	"github.com/farmchain/soiladvisor/internal/intelligence/safety"
	"github.com/farmchain/soiladvisor/pkg/errors"
)

// DefaultMaxRetries bounds the regenerate loop when season validation fails.
const DefaultMaxRetries = 2

// durationsMask hides the crop_durations key from the numeric-leak scan;
// duration strings like "90-110 days" are legitimate numbers.
const durationsMask = "___durations___"

// FertilizerAdvice is the guidance for one nutrient. Ranges are descriptive
// ("Medium to High"), never quantities.
type FertilizerAdvice struct {
	RecommendedRange  string   `json:"recommended_range"`
	Fertilizers       []string `json:"fertilizers"`
	ApplicationStages []string `json:"application_stages"`
}

// Recommendation is the filtered, season-forced recommendation set.
type Recommendation struct {
	Primary        []string                    `json:"primary"`
	Season         agronomy.Season             `json:"season"`
	CropDurations  map[string]string           `json:"crop_durations,omitempty"`
	FertilizerPlan map[string]FertilizerAdvice `json:"fertilizer_plan,omitempty"`
	EquipmentPlan  map[string][]string         `json:"equipment_plan,omitempty"`
}

// rawResponse mirrors the AI's output shape before filtering.
type rawResponse struct {
	CropRecommendation struct {
		Primary       []string          `json:"primary"`
		Season        string            `json:"season"`
		CropDurations map[string]string `json:"crop_durations"`
	} `json:"crop_recommendation"`
	FertilizerPlan map[string]FertilizerAdvice `json:"fertilizer_plan"`
	EquipmentPlan  map[string][]string         `json:"equipment_plan"`
}

type Recommender struct {
	client     llm.CompletionClient
	logger     logging.Logger
	maxRetries int
}

// New builds a Recommender. maxRetries <= 0 falls back to DefaultMaxRetries.
func New(client llm.CompletionClient, logger logging.Logger, maxRetries int) *Recommender {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Recommender{client: client, logger: logger.Named("recommender"), maxRetries: maxRetries}
}

// Recommend generates a recommendation grounded solely on the category
// profile. District, season, and irrigation are mandatory context; the
// profile must be non-empty. The crop set is regenerated up to maxRetries
// times when it fails season validation after filtering; a high-input crop
// surviving the fertility filter is a hard error, never retried.
func (r *Recommender) Recommend(ctx context.Context, profile categorizer.Profile, district string, season agronomy.Season, irrigation, soilType string) (*Recommendation, error) {
	if district == "" || season == "" || irrigation == "" {
		return nil, errors.New(errors.CodeInvalidParam,
			"district, season, and irrigation type are required")
	}
	if _, ok := agronomy.CropsForSeason(season); !ok {
		return nil, errors.Newf(errors.CodeInvalidParam, "unrecognized season %q", season)
	}
	if len(profile) == 0 {
		return nil, errors.New(errors.CodeMissingProfile,
			"soil profile missing, recommendations must be grounded on the profile")
	}
	if r.client == nil {
		return nil, errors.New(errors.CodeLLMUnavailable, "no completion client configured")
	}

	prompt, err := recommendationPrompt(profile, district, season, irrigation, soilType)
	if err != nil {
		return nil, err
	}

	nitrogen := profile.Category(agronomy.ParamNitrogen)
	organicCarbon := profile.Category(agronomy.ParamOrganicCarbon)

	var lastErr error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeTimeout, "recommendation cancelled")
		}

		result, err := r.client.CompleteJSON(ctx, prompt)
		if err != nil {
			lastErr = err
			r.logger.Warn("recommendation generation failed",
				logging.Int("attempt", attempt), logging.Err(err))
			continue
		}

		rec, err := r.scrutinize(result, season, nitrogen, organicCarbon)
		if err != nil {
			if errors.IsCode(err, errors.CodeFertilityFilterBreach) {
				return nil, err
			}
			lastErr = err
			r.logger.Warn("recommendation rejected",
				logging.Int("attempt", attempt), logging.Err(err))
			continue
		}
		return rec, nil
	}

	if errors.IsCode(lastErr, errors.CodeSeasonMismatch) || errors.IsCode(lastErr, errors.CodeNumericLeak) {
		return nil, lastErr
	}
	return nil, errors.Wrap(lastErr, errors.CodeLLMUnavailable,
		"failed to generate valid recommendations after retries")
}

// scrutinize runs the leak scan, the fertility filter, and season validation
// over one AI response.
func (r *Recommender) scrutinize(result map[string]interface{}, season agronomy.Season, nitrogen, organicCarbon agronomy.Category) (*Recommendation, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "re-encode recommendation")
	}

	masked := strings.ReplaceAll(string(raw), "crop_durations", durationsMask)
	if err := safety.CheckText(masked, "recommendation"); err != nil {
		return nil, err
	}

	var resp rawResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrap(err, errors.CodeLLMMalformedJSON, "decode recommendation")
	}

	rec := &Recommendation{
		Season:         season,
		CropDurations:  resp.CropRecommendation.CropDurations,
		FertilizerPlan: resp.FertilizerPlan,
		EquipmentPlan:  resp.EquipmentPlan,
	}

	for _, crop := range resp.CropRecommendation.Primary {
		if agronomy.ShouldFilterCrop(crop, nitrogen, organicCarbon) {
			r.logger.Info("high-input crop filtered",
				logging.String("crop", crop),
				logging.String("nitrogen", string(nitrogen)),
				logging.String("organic_carbon", string(organicCarbon)))
			delete(rec.CropDurations, crop)
			continue
		}
		rec.Primary = append(rec.Primary, crop)
	}

	// Fail-fast assertion over the filtered set. Reaching this error means
	// the filter above is broken, not that the AI misbehaved.
	for _, crop := range rec.Primary {
		if agronomy.ShouldFilterCrop(crop, nitrogen, organicCarbon) {
			return nil, errors.Newf(errors.CodeFertilityFilterBreach,
				"high-input crop %q survived fertility filter (Nitrogen %s, Organic Carbon %s)",
				crop, nitrogen, organicCarbon)
		}
	}

	if !agronomy.ValidateCropsForSeason(rec.Primary, season) {
		return nil, errors.Newf(errors.CodeSeasonMismatch,
			"recommended crops %v do not match season %s", rec.Primary, season)
	}

	// Drop durations for crops that are no longer recommended.
	for crop := range rec.CropDurations {
		if !containsFold(rec.Primary, crop) {
			delete(rec.CropDurations, crop)
		}
	}

	return rec, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
