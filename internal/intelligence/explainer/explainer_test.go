package explainer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
	"github.com/farmchain/soiladvisor/internal/intelligence/categorizer"
	"github.com/farmchain/soiladvisor/internal/intelligence/recommender"
	"github.com/farmchain/soiladvisor/internal/testutil"
	"github.com/farmchain/soiladvisor/pkg/errors"
)

func profileOf(entries map[agronomy.Parameter]agronomy.Category) categorizer.Profile {
	p := make(categorizer.Profile)
	for param, cat := range entries {
		p[param] = categorizer.Entry{Category: cat, Confidence: 0.95}
	}
	return p
}

func kharifRec(crops ...string) *recommender.Recommendation {
	return &recommender.Recommendation{Primary: crops, Season: agronomy.SeasonKharif}
}

func TestSummarizeFullProfile(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamPH:            agronomy.CategoryNeutral,
		agronomy.ParamNitrogen:      agronomy.CategoryLow,
		agronomy.ParamPhosphorus:    agronomy.CategoryLow,
		agronomy.ParamPotassium:     agronomy.CategoryHigh,
		agronomy.ParamOrganicCarbon: agronomy.CategoryPoor,
	})

	summary, err := Summarize(profile, "Pune", agronomy.SeasonKharif, "Rain-fed")
	require.NoError(t, err)

	assert.Equal(t,
		"Soil pH is neutral. Nitrogen levels are low. "+
			"Nutrient supplementation is required to improve soil fertility. "+
			"Phosphorus levels are low and may require supplementation. "+
			"Potassium levels are adequate. "+
			"Soil organic carbon is poor, indicating low fertility. Soil improvement is advised. "+
			"This recommendation is for kharif season with rain-fed irrigation in Pune district.",
		summary)
}

func TestSummarizeLowNitrogenNeverSaysMedium(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamPH:       agronomy.CategoryNeutral,
		agronomy.ParamNitrogen: agronomy.CategoryLow,
	})

	summary, err := Summarize(profile, "Pune", agronomy.SeasonKharif, "Rain-fed")
	require.NoError(t, err)
	assert.Contains(t, summary, "Nitrogen levels are low.")
	assert.NotContains(t, strings.ToLower(summary), "medium")
}

func TestSummarizeUnknownParameters(t *testing.T) {
	summary, err := Summarize(categorizer.Profile{}, "Nagpur", agronomy.SeasonRabi, "Irrigated")
	require.NoError(t, err)

	assert.Contains(t, summary, "Soil pH data is not available. Soil testing is recommended.")
	assert.Contains(t, summary, "Nitrogen data is not available. Soil testing is recommended.")
	assert.Contains(t, summary, "This recommendation is for rabi season with irrigated irrigation in Nagpur district.")
}

func TestSummarizeHighNitrogen(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamNitrogen: agronomy.CategoryHigh,
	})
	summary, err := Summarize(profile, "Pune", agronomy.SeasonKharif, "Drip")
	require.NoError(t, err)
	assert.Contains(t, summary, "Nitrogen levels are high. Nitrogen levels are sufficient for crop growth.")
}

func TestSummarizeContradictionIsHardError(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamNitrogen: agronomy.CategoryLow,
	})

	// "medium" sneaking into the summary through any channel must trip the
	// cross-check rather than ship a contradictory sentence.
	_, err := Summarize(profile, "Pune", agronomy.SeasonKharif, "Medium Drip")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSummaryContradiction))
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestMinimalSummary(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamPH:       agronomy.CategoryNeutral,
		agronomy.ParamNitrogen: agronomy.CategoryLow,
	})
	assert.Equal(t, "Soil pH is neutral. Nitrogen levels are low.", MinimalSummary(profile))
	assert.Empty(t, MinimalSummary(categorizer.Profile{}))
}

func TestExplainWithValidAdvisory(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamPH:       agronomy.CategoryNeutral,
		agronomy.ParamNitrogen: agronomy.CategoryLow,
	})
	client := testutil.NewMockCompletionClient().
		ScriptText("Your soil is neutral with low nitrogen. Soybean and Tur suit these conditions. Apply adequate organic manure before sowing.")
	e := New(client, testutil.NewMockLogger())

	exp, err := e.Explain(context.Background(), profile, kharifRec("Soybean", "Tur"), "Pune", agronomy.SeasonKharif, "Rain-fed", "english")
	require.NoError(t, err)

	assert.Equal(t, "english", exp.Language)
	assert.Contains(t, exp.Summary, "Soil pH is neutral.")
	assert.Equal(t, agronomy.DisclaimerEnglish, exp.Disclaimer)
	assert.Contains(t, exp.Advisory, "Soybean and Tur")
}

func TestExplainDiscardsNumericAdvisory(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamPH:       agronomy.CategoryNeutral,
		agronomy.ParamNitrogen: agronomy.CategoryLow,
	})
	client := testutil.NewMockCompletionClient().
		ScriptText("Your soil pH is 6.9 and you should apply 150 kg/ha of urea.")
	e := New(client, testutil.NewMockLogger())

	exp, err := e.Explain(context.Background(), profile, kharifRec("Soybean"), "Pune", agronomy.SeasonKharif, "Rain-fed", "english")
	require.NoError(t, err)

	// Discarded advisory is replaced by the deterministic fallback.
	assert.Equal(t,
		"Based on the soil conditions, Soybean are recommended for cultivation. "+
			"These crops should be grown during the Kharif season with Rain-fed irrigation.",
		exp.Advisory)
}

func TestExplainDiscardsContradictoryAdvisory(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamNitrogen: agronomy.CategoryLow,
	})
	client := testutil.NewMockCompletionClient().
		ScriptText("Your soil has medium nitrogen, so most crops will thrive.")
	e := New(client, testutil.NewMockLogger())

	exp, err := e.Explain(context.Background(), profile, kharifRec("Soybean"), "Pune", agronomy.SeasonKharif, "Rain-fed", "english")
	require.NoError(t, err)
	assert.NotContains(t, exp.Advisory, "medium nitrogen")
	assert.Contains(t, exp.Advisory, "Soybean are recommended")
}

func TestExplainDiscardsForeignCropAdvisory(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamNitrogen: agronomy.CategoryMedium,
	})
	client := testutil.NewMockCompletionClient().
		ScriptText("Soybean grows well here, and you could also consider Wheat next season.")
	e := New(client, testutil.NewMockLogger())

	exp, err := e.Explain(context.Background(), profile, kharifRec("Soybean"), "Pune", agronomy.SeasonKharif, "Rain-fed", "english")
	require.NoError(t, err)
	assert.NotContains(t, exp.Advisory, "Wheat")
}

func TestExplainMarathiFallback(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamNitrogen: agronomy.CategoryLow,
	})
	e := New(nil, testutil.NewMockLogger())

	exp, err := e.Explain(context.Background(), profile, kharifRec("Soybean", "Tur"), "Pune", agronomy.SeasonKharif, "Rain-fed", "marathi")
	require.NoError(t, err)

	assert.Equal(t, agronomy.DisclaimerMarathi, exp.Disclaimer)
	assert.Contains(t, exp.Advisory, "Soybean, Tur")
	assert.Contains(t, exp.Advisory, "शिफारस")
}

func TestExplainNoRecommendationFallback(t *testing.T) {
	profile := profileOf(map[agronomy.Parameter]agronomy.Category{
		agronomy.ParamPH: agronomy.CategoryNeutral,
	})
	e := New(nil, testutil.NewMockLogger())

	exp, err := e.Explain(context.Background(), profile, nil, "Pune", agronomy.SeasonKharif, "Rain-fed", "english")
	require.NoError(t, err)
	assert.Contains(t, exp.Advisory, "suitable crops are recommended")
}

func TestExplainMissingProfile(t *testing.T) {
	e := New(nil, testutil.NewMockLogger())
	_, err := e.Explain(context.Background(), nil, kharifRec("Soybean"), "Pune", agronomy.SeasonKharif, "Rain-fed", "english")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMissingProfile))
}

func TestCleanAdvisory(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Here is the advisory: Grow Soybean this season.", "the advisory: Grow Soybean this season."},
		{"Advisory: Grow Soybean this season.", "Grow Soybean this season."},
		{"```\njunk\n```Grow Soybean.", "Grow Soybean."},
		{"  Grow Soybean.  ", "Grow Soybean."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanAdvisory(tc.in))
	}
}
