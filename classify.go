package main

import (
	"fmt"

	"cold-email-generator/internal/features/outreach/domain"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <linkedin-url>",
	Short: "Report whether a URL is a LinkedIn profile, a company page, or neither",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	entityType := domain.ClassifyURL(args[0])
	if entityType == domain.EntityInvalid {
		return fmt.Errorf("not a LinkedIn profile or company URL, expected one of: %v", domain.ExpectedURLFormats)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", entityType, domain.URLIdentifier(args[0]))
	return nil
}
