package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmchain/soiladvisor/internal/application/advisory"
	"github.com/farmchain/soiladvisor/internal/intelligence/categorizer"
	"github.com/farmchain/soiladvisor/internal/intelligence/explainer"
	"github.com/farmchain/soiladvisor/internal/intelligence/extractor"
	"github.com/farmchain/soiladvisor/internal/intelligence/recommender"
	"github.com/farmchain/soiladvisor/internal/testutil"
)

func testService() *advisory.Service {
	logger := testutil.NewMockLogger()
	recommendClient := testutil.NewMockCompletionClient().ScriptJSON(`{
		"crop_recommendation": {"primary": ["Soybean", "Tur"], "season": "Kharif"}
	}`)
	return advisory.NewService(
		extractor.New(nil, logger),
		categorizer.New(nil, logger),
		recommender.New(recommendClient, logger, 2),
		explainer.New(nil, logger),
		nil,
		logger,
	)
}

func TestRunAnalyzeSuccess(t *testing.T) {
	in := strings.NewReader(`{"report_text": "pH: 6.9\nAvailable Nitrogen (N): 120 kg/ha", "district": "Pune"}`)
	var out bytes.Buffer

	err := runAnalyze(context.Background(), testService(), in, &out)
	require.NoError(t, err)

	var resp advisory.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, advisory.Version, resp.Version)
	require.NotNil(t, resp.Explanation)
	assert.Contains(t, resp.Explanation.Summary, "Soil pH is neutral")
}

func TestRunAnalyzeFailureExitsNonZero(t *testing.T) {
	in := strings.NewReader(`{"report_text": "pH: 6.9"}`)
	var out bytes.Buffer

	err := runAnalyze(context.Background(), testService(), in, &out)
	require.ErrorIs(t, err, errAnalysisFailed)

	// The response JSON is still the full envelope with an explanation.
	var resp advisory.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Explanation)
	assert.Equal(t, "Required parameters are missing.", resp.Explanation.Summary)
	assert.NotEmpty(t, resp.Explanation.Disclaimer)
}

func TestRunAnalyzeMalformedInput(t *testing.T) {
	in := strings.NewReader(`{not json`)
	var out bytes.Buffer

	err := runAnalyze(context.Background(), testService(), in, &out)
	require.ErrorIs(t, err, errAnalysisFailed)

	var resp advisory.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "invalid input JSON")
	require.NotNil(t, resp.Explanation)
	assert.NotEmpty(t, resp.Explanation.Disclaimer)
}

func TestRootCommandStructure(t *testing.T) {
	cmd := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["analyze"])
	assert.True(t, names["serve"])
	assert.True(t, names["version"])

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "soiladvisor")
	assert.Contains(t, out.String(), "commit:")
}
