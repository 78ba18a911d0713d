// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the prospect-engine CLI: job
// submission, one-shot execution, the polling worker, and job
// inspection.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/prospect-engine/internal/secrets"
	"github.com/pdiddy/prospect-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the prospect-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "prospect-engine",
	Short: "Multi-agent company and prospect research",
	Long: `prospect-engine researches companies and prospects with a pipeline of
specialized agents: company discovery, market analysis, competitor research,
and person research, backed by web search and LLM synthesis.

Jobs are persisted in a local SQLite queue. Submit jobs with "submit", run
one immediately with "run", or start a polling worker with "worker". Inspect
jobs with "jobs" and "show".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./prospect-engine.yaml or ~/.config/prospect-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose, human-readable logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prospect-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "prospect-engine"))
		}
	}

	viper.SetEnvPrefix("PROSPECT_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("store.path", "data/prospect.db")
	viper.SetDefault("ai.model", "llama-4-scout-17b-16e-instruct")
	viper.SetDefault("ai.temperature", 0.2)
	viper.SetDefault("worker.poll_interval", "5s")
	viper.SetDefault("orchestrator.max_follow_ups", 3)
	viper.SetDefault("orchestrator.follow_up_results", 2)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles component configuration from the config
// file, environment, and loaded secrets.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: "prospect-engine/" + version,
			},
			APIKey:          secretDefault("exa-api-key", viper.GetString("search.api_key")),
			MaxSnippetChars: viper.GetInt("search.max_snippet_chars"),
			MaxRetries:      viper.GetInt("search.max_retries"),
		},
		AI: types.AIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("ai.timeout"),
				UserAgent: "prospect-engine/" + version,
			},
			Model:       viper.GetString("ai.model"),
			APIKey:      secretDefault("cerebras-api-key", viper.GetString("ai.api_key")),
			Temperature: viper.GetFloat64("ai.temperature"),
			MaxRetries:  viper.GetInt("ai.max_retries"),
		},
		Orchestrator: types.OrchestratorConfig{
			MaxFollowUps:    viper.GetInt("orchestrator.max_follow_ups"),
			FollowUpResults: viper.GetInt("orchestrator.follow_up_results"),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
		Worker: types.WorkerConfig{
			PollInterval: viper.GetDuration("worker.poll_interval"),
		},
	}
}

// newLogger builds the process logger. Production JSON by default,
// console output with --verbose.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
