package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cold-email-generator/internal/features/outreach/domain"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var generateOutputDir string

var generateCmd = &cobra.Command{
	Use:   "generate <linkedin-url> <product-description>",
	Short: "Generate one cold email and print it",
	Args:  cobra.ExactArgs(2),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutputDir, "output-dir", "o", "", "Also save the response as <name>-email.json in this directory")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outreachService, err := newOutreachService(cfg, false)
	if err != nil {
		return err
	}

	resp, err := outreachService.Generate(cmd.Context(), domain.GenerateRequest{
		URL:                args[0],
		ProductDescription: args[1],
	})
	if err != nil {
		var pipelineErr *domain.Error
		if errors.As(err, &pipelineErr) && pipelineErr.Details != "" {
			return fmt.Errorf("%s step failed: %s (%s)", pipelineErr.Stage(), pipelineErr.Message, pipelineErr.Details)
		}
		return err
	}

	if resp.ParseWarning {
		log.Warn().Msg("Model output was not valid JSON, printing it as is")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "To: %s (%s)\n\n%s\n", resp.Profile.Name, resp.Profile.Headline, resp.Email)

	if generateOutputDir == "" {
		return nil
	}
	path, err := saveResponse(generateOutputDir, resp)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("Saved generation response")
	return nil
}

// saveResponse writes resp to dir under a file name derived from the profile name.
func saveResponse(dir string, resp *domain.GenerateResponse) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := slug.Make(resp.Profile.Name)
	if name == "" {
		name = resp.ResultID
	}
	path := filepath.Join(dir, name+"-email.json")

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
