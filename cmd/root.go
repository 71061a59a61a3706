package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kayz/promptfile/internal/config"
	"github.com/kayz/promptfile/internal/logger"
	"github.com/kayz/promptfile/internal/options"
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	configPath  string
	profileName string

	appConfig *config.Config
	logFile   *os.File
)

var rootCmd = &cobra.Command{
	Use:   "promptfile",
	Short: "Parse, format and project $$-delimited prompt files",
	Long: `promptfile works with prompt files made of $$begin/$$end blocks.

Commands:
  promptfile parse FILE      Print the records in a prompt file
  promptfile format FILE     Rewrite a prompt file in canonical form
  promptfile project FILE    Show the options of a record in a vendor shape
  promptfile request FILE    Build an OpenAI or Anthropic request body
  promptfile library ...     Store prompt files in the local library`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		appConfig = cfg

		// Priority: command line flag > config file
		levelName := cfg.Logging.Level
		if cmd.Flags().Changed("log") {
			levelName = logLevel
		}
		level, err := logger.ParseLevel(levelName)
		if err != nil {
			return err
		}
		logger.SetLevel(level)

		if cfg.Logging.File != "" {
			f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			logFile = f
			logger.SetOutput(f)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: .promptfile.yaml next to the executable)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "",
		"Options profile: generation, structured-output (default: from config)")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// activeProfile resolves --profile, falling back to the configured profile.
func activeProfile() (options.Profile, error) {
	if profileName != "" {
		return options.ParseProfile(profileName)
	}
	if appConfig == nil {
		return options.Generation, nil
	}
	return appConfig.ProfileValue(), nil
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
