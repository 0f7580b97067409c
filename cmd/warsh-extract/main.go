// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the warsh-extract CLI. Running it
// without a subcommand performs the extraction with default settings.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the warsh-extract CLI.
var rootCmd = &cobra.Command{
	Use:   "warsh-extract",
	Short: "Split the Warsh tajweed HTML export into per-sura data files",
	Long: `warsh-extract reads warsh-tajweed-full-quran.html, pulls out the embedded
WARSH_DATA object, and writes one JSON file per sura into data/. The tajweed rule script (the <script> block
that declares function detect) is saved as engine.js.

Run without a subcommand to extract with the defaults. The catalog
subcommands index the generated files into SQLite for offline search.`,
	SilenceUsage: true,
	RunE:         runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./warsh-extract.yaml or ~/.config/warsh-extract/config.yaml)")
	addExtractFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("warsh-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "warsh-extract"))
		}
	}

	viper.SetEnvPrefix("WARSH_EXTRACT")
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
