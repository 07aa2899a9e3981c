package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"issuebridge/internal"
	"issuebridge/internal/db"
	"issuebridge/internal/env"
	"issuebridge/internal/events"
	"issuebridge/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
)

var (
	deployment string
	port       string
	envRoot    string
	appVersion string
	logLevel   string
	logJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "issuebridge [deployment]",
	Short: "Forward GitHub issue webhooks to PagerDuty",
	Long: `Runs the webhook listener that turns GitHub "issues" deliveries into
PagerDuty Events API v2 incident events.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Setup(logLevel, logJSON)
	},
	RunE: runServer,
}

func init() {
	rootCmd.Flags().StringVar(&deployment, "deployment", "", "deployment profile (dev|test|prod)")
	rootCmd.Flags().StringVar(&port, "port", "", "port to listen on")
	rootCmd.Flags().StringVar(&envRoot, "env-root", "", "directory containing environment files")
	rootCmd.Flags().StringVar(&appVersion, "app-version", "", "application version override")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
}

func runServer(cmd *cobra.Command, args []string) error {
	deploy := strings.TrimSpace(deployment)
	if deploy == "" && len(args) > 0 {
		deploy = strings.TrimSpace(args[0])
	}
	if deploy == "" {
		_ = cmd.Usage()
		return errors.New("deployment is required")
	}

	listenPort := strings.TrimSpace(port)
	if listenPort == "" {
		return errors.New("port is required")
	}

	ensureHome()

	app := internal.SetupApp(deploy, envRoot, appVersion)
	defer db.Close()
	defer events.Em.Close()

	logger.Info("starting issuebridge", "version", env.VERSION, "deployment", deploy, "port", listenPort)

	if err := app.Listen(fmt.Sprintf(":%s", listenPort), fiber.ListenConfig{
		EnablePrefork: env.PREFORK,
	}); err != nil {
		return fmt.Errorf("listening on port %s: %w", listenPort, err)
	}

	return nil
}

func ensureHome() {
	home := strings.TrimSpace(os.Getenv("HOME"))
	if home == "" {
		home = "/var/issuebridge"
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		logger.Warn("unable to create HOME directory", "home", home, "error", err)
		return
	}
	_ = os.Setenv("HOME", home)
}
