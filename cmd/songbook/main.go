package main

import (
	"fmt"
	"os"

	"github.com/franz/songbook/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "songbook",
		Short: "Songbook - look up hymns by number, title or lyric fragment",
		Long: `songbook ingests per-book lyric files and their attachment lists
(chords, scores, audio, piano, videos, links), builds normalized lookup
tables and resolves free-form queries to songs.

The index is rebuilt from the source files on every run.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: applyLogging,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/songbook.yaml)")
	rootCmd.PersistentFlags().String("sources", "sources.yaml", "source manifest listing book and attachment files")
	rootCmd.PersistentFlags().Int("workers", 0, "files parsed in parallel (0 = one per CPU, max 8)")
	rootCmd.PersistentFlags().String("events-dir", "", "write a JSONL event log into this directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	// Bind flags to viper
	viper.BindPFlag("sources", rootCmd.PersistentFlags().Lookup("sources"))
	viper.BindPFlag("ingest.workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("events-dir", rootCmd.PersistentFlags().Lookup("events-dir"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	viper.SetDefault("search.cutoff", 85.0)
	viper.SetDefault("search.limit", 10)
	viper.SetDefault("search.max_query_length", 200)
	viper.SetDefault("search.scorer", "indel")
	viper.SetDefault("events.level", "info")
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in common locations
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("songbook")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("SONGBOOK")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

func applyLogging(cmd *cobra.Command, args []string) error {
	util.SetColors(util.IsTerminal(os.Stderr.Fd()))
	if level := GetConfigString("log_level", ""); level != "" {
		util.SetLogLevel(util.ParseLogLevel(level))
	}
	util.SetVerbose(GetConfigBool("verbose"))
	util.SetQuiet(GetConfigBool("quiet"))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
