package advisory

import (
	"strings"

	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
	"github.com/farmchain/soiladvisor/internal/intelligence/categorizer"
	"github.com/farmchain/soiladvisor/internal/intelligence/explainer"
	"github.com/farmchain/soiladvisor/internal/intelligence/extractor"
	"github.com/farmchain/soiladvisor/internal/intelligence/recommender"
)

// Version tags every response so downstream consumers can detect pipeline
// revisions.
const Version = "farmchain-ai-v1.0"

// Request is one soil report analysis. Report text may be empty; district,
// season, and irrigation are mandatory after defaulting.
type Request struct {
	ReportText     string `json:"report_text"`
	District       string `json:"district"`
	SoilType       string `json:"soil_type,omitempty"`
	IrrigationType string `json:"irrigation_type,omitempty"`
	Season         string `json:"season,omitempty"`
	Language       string `json:"language,omitempty"`
}

// Normalize fills the documented defaults and trims whitespace. District has
// no default: a request without one fails validation.
func (r *Request) Normalize() {
	r.ReportText = strings.TrimSpace(r.ReportText)
	r.District = strings.TrimSpace(r.District)
	r.SoilType = strings.TrimSpace(r.SoilType)
	r.IrrigationType = strings.TrimSpace(r.IrrigationType)
	r.Season = strings.TrimSpace(r.Season)
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))

	if r.IrrigationType == "" {
		r.IrrigationType = "Rain-fed"
	}
	if r.Season == "" {
		r.Season = string(agronomy.SeasonKharif)
	}
	if r.Language == "" {
		r.Language = "marathi"
	}
}

// ParameterView is the numeric-free rendering of one extracted parameter:
// the measured value is replaced by its threshold category so the view can
// be shown to clients that must never see raw numbers.
type ParameterView struct {
	Category      agronomy.Category `json:"category"`
	Unit          string            `json:"unit,omitempty"`
	Source        string            `json:"source"`
	UnitUncertain bool              `json:"unit_uncertain,omitempty"`
}

// Response is the full analysis result. Explanation is always non-nil, on
// every path including failures; that is a hard contract of the pipeline.
type Response struct {
	Success             bool                                 `json:"success"`
	Version             string                               `json:"version"`
	ExtractedParameters extractor.Readings                   `json:"extracted_parameters,omitempty"`
	SoilProfile         categorizer.Profile                  `json:"soil_profile,omitempty"`
	Recommendations     *recommender.Recommendation          `json:"recommendations,omitempty"`
	Explanation         *explainer.Explanation               `json:"explanation"`
	CleanValues         map[agronomy.Parameter]ParameterView `json:"clean_values,omitempty"`
	Error               string                               `json:"error,omitempty"`
}

// cleanValues derives the numeric-free view from the readings. Measured
// values go through the threshold table; anything uncategorizable renders
// as Unknown rather than leaking the number.
func cleanValues(readings extractor.Readings) map[agronomy.Parameter]ParameterView {
	if len(readings) == 0 {
		return nil
	}
	out := make(map[agronomy.Parameter]ParameterView, len(readings))
	for p, reading := range readings {
		view := ParameterView{
			Category:      agronomy.CategoryUnknown,
			Unit:          reading.Unit,
			Source:        reading.Source,
			UnitUncertain: reading.UnitUncertain,
		}
		if reading.Measured() {
			if category, _, err := agronomy.Categorize(p, *reading.Value); err == nil {
				view.Category = category
			}
		}
		out[p] = view
	}
	return out
}
