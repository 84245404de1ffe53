// Package advisory sequences the analysis pipeline: extract, classify,
// recommend, explain. Every failure path still produces a response with a
// minimal explanation; callers never have to null-check the explanation.
package advisory

import (
	"context"
	"time"

	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/prometheus"
	"github.com/farmchain/soiladvisor/internal/intelligence/categorizer"
	"github.com/farmchain/soiladvisor/internal/intelligence/explainer"
	"github.com/farmchain/soiladvisor/internal/intelligence/extractor"
	"github.com/farmchain/soiladvisor/internal/intelligence/recommender"
	"github.com/farmchain/soiladvisor/pkg/errors"
)

// Service wires the pipeline stages together.
type Service struct {
	extractor   *extractor.Extractor
	classifier  *categorizer.Classifier
	recommender *recommender.Recommender
	explainer   *explainer.Explainer
	metrics     *prometheus.AppMetrics
	logger      logging.Logger
}

// NewService builds the orchestrator. metrics may be nil when telemetry is
// disabled.
func NewService(ext *extractor.Extractor, cls *categorizer.Classifier, rec *recommender.Recommender, exp *explainer.Explainer, metrics *prometheus.AppMetrics, logger logging.Logger) *Service {
	return &Service{
		extractor:   ext,
		classifier:  cls,
		recommender: rec,
		explainer:   exp,
		metrics:     metrics,
		logger:      logger.Named("advisory"),
	}
}

// Process runs the full analysis. The returned response always carries a
// non-nil Explanation; success=false responses still include whatever
// partial results were produced before the failing stage.
func (s *Service) Process(ctx context.Context, req Request) *Response {
	started := time.Now()
	resp := s.process(ctx, req)
	s.recordAnalysis(resp.Success, time.Since(started))
	return resp
}

func (s *Service) process(ctx context.Context, req Request) *Response {
	req.Normalize()

	if req.District == "" || req.Season == "" || req.IrrigationType == "" {
		return s.failure(req.Language, "Required parameters are missing.",
			"District, season, and irrigation_type are required", nil, nil, nil)
	}
	season, ok := agronomy.ParseSeason(req.Season)
	if !ok {
		return s.failure(req.Language, "Required parameters are missing.",
			"unrecognized season "+req.Season, nil, nil, nil)
	}

	readings, err := s.runExtract(ctx, req.ReportText)
	if err != nil {
		s.recordError("extractor", err)
		return s.failure(req.Language, "An error occurred while processing the soil report.",
			err.Error(), nil, nil, nil)
	}

	profile, err := s.runClassify(ctx, readings, req)
	if err != nil {
		s.recordError("categorizer", err)
		if errors.IsInvariantViolation(err) {
			s.recordInvariant(err)
		}
		summary := "Failed to categorize soil profile."
		if len(readings.Measured()) == 0 {
			summary = "No soil parameters were extracted from the report."
		}
		return s.failure(req.Language, summary,
			"Failed to categorize soil profile: "+err.Error(), readings, nil, nil)
	}

	rec, err := s.runRecommend(ctx, profile, req, season)
	if err != nil {
		s.recordError("recommender", err)
		if errors.IsInvariantViolation(err) {
			s.recordInvariant(err)
		}
		summary := "Unable to generate recommendations."
		if minimal := explainer.MinimalSummary(profile); minimal != "" {
			summary = minimal
		}
		return s.failure(req.Language, summary, err.Error(), readings, profile, nil)
	}

	// Final fail-fast over the assembled result. A high-input crop on a
	// depleted profile here means the recommender's filter is broken.
	if err := s.assertCropFertility(profile, rec); err != nil {
		s.recordError("advisory", err)
		s.recordInvariant(err)
		return s.failure(req.Language, "An error occurred while processing the soil report.",
			err.Error(), readings, profile, nil)
	}

	explanation, err := s.runExplain(ctx, profile, rec, req, season)
	if err != nil {
		s.recordError("explainer", err)
		if errors.IsInvariantViolation(err) {
			s.recordInvariant(err)
		}
		summary := "Unable to generate explanation."
		if minimal := explainer.MinimalSummary(profile); minimal != "" {
			summary = minimal
		}
		return s.failure(req.Language, summary,
			"Failed to generate explanation: "+err.Error(), readings, profile, rec)
	}

	return &Response{
		Success:             true,
		Version:             Version,
		ExtractedParameters: readings,
		SoilProfile:         profile,
		Recommendations:     rec,
		Explanation:         explanation,
		CleanValues:         cleanValues(readings),
	}
}

func (s *Service) runExtract(ctx context.Context, reportText string) (extractor.Readings, error) {
	defer s.stageTimer("extract")()
	return s.extractor.Extract(ctx, reportText)
}

func (s *Service) runClassify(ctx context.Context, readings extractor.Readings, req Request) (categorizer.Profile, error) {
	defer s.stageTimer("classify")()
	return s.classifier.Classify(ctx, readings, req.District, req.SoilType, req.IrrigationType)
}

func (s *Service) runRecommend(ctx context.Context, profile categorizer.Profile, req Request, season agronomy.Season) (*recommender.Recommendation, error) {
	defer s.stageTimer("recommend")()
	return s.recommender.Recommend(ctx, profile, req.District, season, req.IrrigationType, req.SoilType)
}

func (s *Service) runExplain(ctx context.Context, profile categorizer.Profile, rec *recommender.Recommendation, req Request, season agronomy.Season) (*explainer.Explanation, error) {
	defer s.stageTimer("explain")()
	return s.explainer.Explain(ctx, profile, rec, req.District, season, req.IrrigationType, req.Language)
}

func (s *Service) assertCropFertility(profile categorizer.Profile, rec *recommender.Recommendation) error {
	if rec == nil {
		return nil
	}
	nitrogen := profile.Category(agronomy.ParamNitrogen)
	organicCarbon := profile.Category(agronomy.ParamOrganicCarbon)
	for _, crop := range rec.Primary {
		if agronomy.ShouldFilterCrop(crop, nitrogen, organicCarbon) {
			return errors.Newf(errors.CodeFertilityFilterBreach,
				"invalid crop %q rendered for low fertility soil (Nitrogen %s, Organic Carbon %s)",
				crop, nitrogen, organicCarbon)
		}
	}
	return nil
}

// failure builds a success=false response. The explanation is minimal but
// always present.
func (s *Service) failure(language, summary, errMsg string, readings extractor.Readings, profile categorizer.Profile, rec *recommender.Recommendation) *Response {
	s.logger.Warn("analysis failed",
		logging.String("summary", summary),
		logging.String("error", errMsg))
	return &Response{
		Success:             false,
		Version:             Version,
		Error:               errMsg,
		ExtractedParameters: readings,
		SoilProfile:         profile,
		Recommendations:     rec,
		CleanValues:         cleanValues(readings),
		Explanation: &explainer.Explanation{
			Language:   language,
			Summary:    summary,
			Disclaimer: agronomy.Disclaimer(language),
		},
	}
}

func (s *Service) stageTimer(stage string) func() {
	if s.metrics == nil {
		return func() {}
	}
	timer := s.metrics.StageTimer(stage)
	return func() { timer.ObserveDuration() }
}

func (s *Service) recordAnalysis(success bool, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	s.metrics.RecordAnalysis(outcome, duration)
}

func (s *Service) recordError(component string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordError(component, errors.GetCode(err).String())
}

func (s *Service) recordInvariant(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordInvariantViolation(errors.GetCode(err).String())
}
