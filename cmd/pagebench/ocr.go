// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagebench/internal/ocr"
	"github.com/pdiddy/pagebench/internal/runlog"
	"github.com/pdiddy/pagebench/pkg/types"
)

const (
	defaultOCRModel    = "google/gemini-2.5-flash-lite"
	defaultRefineModel = "google/gemini-2.5-flash"
	defaultOCRTimeout  = 2 * time.Minute
	defaultUserAgent   = "pagebench/0.1"
)

// secretKeyByProvider maps providers to their .secrets/ key file names.
var secretKeyByProvider = map[types.OCRProvider]string{
	types.ProviderOpenRouter: "openrouter-api-key",
	types.ProviderOpenAI:     "openai-api-key",
	types.ProviderAnthropic:  "anthropic-api-key",
}

var ocrCmd = &cobra.Command{
	Use:   "ocr [image-dir]",
	Short: "Extract markdown from page images with a vision LLM",
	Long: `OCR runs a two-stage vision-LLM pipeline over every image in a directory
(typically an export's png_bw/ tree): a transcription pass extracts the
page as markdown, a refinement pass corrects it against the same image.

Results are written to a llm_md/ directory next to the input, named by
image stem, so png_bw/page_0007.png becomes llm_md/page_0007.md and
pairs 1:1 with the export's md/ files for the compare subcommand.`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

func init() {
	ocrCmd.Flags().String("provider", string(types.ProviderOpenRouter), "model provider: openrouter, openai, or anthropic")
	ocrCmd.Flags().String("model", defaultOCRModel, "vision model for transcription")
	ocrCmd.Flags().String("refine-model", defaultRefineModel, "model for the refinement pass (default: transcription model)")
	ocrCmd.Flags().String("base-url", "", "API base URL override")
	ocrCmd.Flags().String("api-key", "", "API key (default: .secrets/<provider>-api-key)")
	ocrCmd.Flags().Duration("timeout", defaultOCRTimeout, "per-request timeout")
	ocrCmd.Flags().Int("max-retries", 3, "retry attempts for failed model calls")

	rootCmd.AddCommand(ocrCmd)
}

func runOCR(cmd *cobra.Command, args []string) error {
	provider, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	refineModel, _ := cmd.Flags().GetString("refine-model")
	baseURL, _ := cmd.Flags().GetString("base-url")
	apiKey, _ := cmd.Flags().GetString("api-key")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	cfg := types.OCRConfig{
		AIConfig: types.AIConfig{
			Model:      model,
			APIKey:     secretDefault(secretKeyByProvider[types.OCRProvider(provider)], apiKey),
			BaseURL:    baseURL,
			MaxRetries: maxRetries,
		},
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Provider:    types.OCRProvider(provider),
		RefineModel: refineModel,
	}

	client, err := ocr.NewClient(cfg)
	if err != nil {
		return err
	}

	started := time.Now().UTC()
	summary, err := ocr.ProcessFolder(cmd.Context(), client, args[0], cfg.MaxRetries, os.Stdout)
	if err != nil {
		return err
	}

	recordRun(cmd, runlog.Record{
		Kind:      runlog.KindOCR,
		Source:    args[0],
		OutputDir: summary.OutputDir,
		Started:   started,
		Finished:  time.Now().UTC(),
		Attempted: summary.Total(),
		Succeeded: summary.Processed,
		Failed:    summary.Failed,
		OK:        !summary.HasFailures(),
	})

	if summary.HasFailures() {
		return fmt.Errorf("%d image(s) failed OCR", summary.Failed)
	}
	return nil
}
