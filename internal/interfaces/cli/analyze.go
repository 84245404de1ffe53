package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/farmchain/soiladvisor/internal/application/advisory"
	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
	"github.com/farmchain/soiladvisor/internal/intelligence/explainer"
)

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a soil report from stdin and write the result to stdout",
		Long: "Reads a JSON request from stdin, runs the full analysis pipeline, and\n" +
			"writes the response JSON to stdout. Exits 1 when the analysis fails;\n" +
			"the response JSON still carries the explanation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := initApp(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), application.cfg.Pipeline.AnalysisTimeout)
			defer cancel()
			return runAnalyze(ctx, application.service, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runAnalyze decodes one request, processes it, and emits the response.
// Every path writes a response to out, including decode failures.
func runAnalyze(ctx context.Context, svc *advisory.Service, in io.Reader, out io.Writer) error {
	var req advisory.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		resp := &advisory.Response{
			Success: false,
			Version: advisory.Version,
			Error:   "invalid input JSON: " + err.Error(),
			Explanation: &explainer.Explanation{
				Language:   "marathi",
				Summary:    "An error occurred while processing the soil report.",
				Disclaimer: agronomy.Disclaimer("marathi"),
			},
		}
		if writeErr := writeResponse(out, resp); writeErr != nil {
			return writeErr
		}
		return errAnalysisFailed
	}

	resp := svc.Process(ctx, req)
	if err := writeResponse(out, resp); err != nil {
		return err
	}
	if !resp.Success {
		return errAnalysisFailed
	}
	return nil
}

func writeResponse(out io.Writer, resp *advisory.Response) error {
	encoded, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}
