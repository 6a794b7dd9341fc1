// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pagebench CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pagebench/internal/secrets"
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

// rootCmd is the base command for the pagebench CLI.
var rootCmd = &cobra.Command{
	Use:   "pagebench",
	Short: "Convert PDF pages to markdown and images, OCR them, and compare the results",
	Long: `pagebench turns PDF documents into per-page artifacts and benchmarks two
text extraction methods against each other: deterministic layout-based
markdown conversion and vision-LLM OCR.

Each stage is a subcommand: export renders selected pages as markdown and
color/grayscale images, ocr runs a vision model over the page images,
compare pairs both markdown outputs page by page, and runs lists recorded
pipeline history.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pagebench.yaml or ~/.config/pagebench/config.yaml)")
	rootCmd.PersistentFlags().String("log-dir", "", "directory for the run ledger (default .pagebench)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pagebench")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pagebench"))
		}
	}

	viper.SetEnvPrefix("PAGEBENCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
