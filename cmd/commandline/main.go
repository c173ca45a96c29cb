package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ethanbaker/wikiai/internal/session"
	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/ethanbaker/wikiai/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	baseURL  string
	category string
	timeout  time.Duration
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "wikiai",
	Short: "Interactive study assistant",
	Long: `wikiai talks to a WikiAI answering service. Ask questions in one of four
categories, attach a document to ground the next question, and export answers
as PDF, DOCX, PPTX or XLSX files.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env", utils.EnvFile(), "env file to load")
	rootCmd.Flags().StringVar(&baseURL, "backend", "", "backend base URL (overrides BACKEND_BASE_URL)")
	rootCmd.Flags().StringVarP(&category, "category", "c", "", "starting category (overrides DEFAULT_CATEGORY)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "request timeout (overrides REQUEST_TIMEOUT)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log to the terminal as well")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := utils.NewConfigFromEnv(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	// Flags win over the env file
	if baseURL != "" {
		cfg.Set("BACKEND_BASE_URL", baseURL)
	}
	if category != "" {
		cfg.Set("DEFAULT_CATEGORY", category)
	}
	if timeout > 0 {
		cfg.Set("REQUEST_TIMEOUT", timeout.String())
	}

	settings, err := session.SettingsFromConfig(cfg)
	if err != nil {
		return err
	}

	// Logs would interleave with the conversation, so the console stays quiet unless asked
	opts := logging.OptionsFromConfig(cfg)
	opts.Quiet = !verbose
	logger := logging.New(opts)
	defer logger.Sync()

	r := newREPL(os.Stdin, os.Stdout)
	sess := session.New(settings,
		session.WithLogger(logger),
		session.WithNotifier(r),
	)

	return r.Run(cmd.Context(), sess)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
