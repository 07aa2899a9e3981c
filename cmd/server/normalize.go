package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"issuebridge/internal/models"
	"issuebridge/internal/normalizer"

	"github.com/spf13/cobra"
)

var (
	normalizeEvent    string
	normalizeFile     string
	normalizeAction   string
	normalizeSeverity string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize a saved webhook payload without sending it",
	Long: `Reads a GitHub webhook body from disk and prints the incident event it would
produce, or the reason it would be suppressed. Nothing is sent to PagerDuty.`,
	Args: cobra.NoArgs,
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeEvent, "event", "", "value of the X-GitHub-Event header")
	normalizeCmd.Flags().StringVar(&normalizeFile, "file", "", "path to the JSON payload")
	normalizeCmd.Flags().StringVar(&normalizeAction, "action", "trigger", "event_action of the produced event")
	normalizeCmd.Flags().StringVar(&normalizeSeverity, "severity", "critical", "severity of the produced event")
	_ = normalizeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	body, err := os.ReadFile(normalizeFile)
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	req := models.InboundRequest{Body: body}
	if event := strings.TrimSpace(normalizeEvent); event != "" {
		req.Headers = []models.Header{{Name: normalizer.EventHeader, Value: event}}
	}

	out, err := normalizer.Normalize(req, models.TriggerContext{
		TriggerAction: normalizeAction,
		Severity:      normalizeSeverity,
	})
	if err != nil {
		return fmt.Errorf("normalize failed: %w", err)
	}

	if !out.Emitted() {
		fmt.Fprintf(cmd.OutOrStdout(), "suppressed: %s\n", out.Reason)
		return nil
	}

	data, err := json.MarshalIndent(out.Event, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
