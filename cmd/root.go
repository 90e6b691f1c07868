package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	buildCmd "github.com/f1insight/frameforge/pkg/cmd/build"
	invalidateCmd "github.com/f1insight/frameforge/pkg/cmd/invalidate"
	scheduleCmd "github.com/f1insight/frameforge/pkg/cmd/schedule"
	"github.com/f1insight/frameforge/pkg/config"
	"github.com/f1insight/frameforge/version"
)

const envPrefix = "FFG"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "frameforge",
	Short:   "Builds fixed-rate replay frame sequences from F1 timing data",
	Long:    ``,
	Version: version.FullVersion,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:lll // readability
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.frameforge.yml)")

	rootCmd.PersistentFlags().StringVar(&config.CacheFile, "cache-file",
		"frameforge.db",
		"path of the local database holding computed frame sequences")
	rootCmd.PersistentFlags().StringVar(&config.SourceURL, "source-url",
		"https://api.openf1.org/v1",
		"base URL of the timing service API")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level",
		"info",
		"sets the log level (zap log level values)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat, "log-format",
		"text",
		"log output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilters, "log-filters",
		"",
		"per-subsystem log level rules (zapfilter syntax)")
	rootCmd.PersistentFlags().IntVar(&config.Workers, "workers",
		0,
		"extraction worker budget (0 means number of CPU cores)")
	rootCmd.PersistentFlags().StringVar(&config.DriverTimeout, "driver-timeout",
		"2m",
		"per-driver extraction timeout")
	rootCmd.PersistentFlags().IntVar(&config.SourceRetries, "source-retries",
		3,
		"max retries for transient timing service errors")
	rootCmd.PersistentFlags().Float64Var(&config.NightThreshold, "night-threshold",
		0,
		"solar elevation (degrees) below which a frame counts as night")
	rootCmd.PersistentFlags().StringVar(&config.StintGapPolicy, "stint-gap-policy",
		"repair",
		"how to handle tyre stint gaps (repair, flag)")

	// add commands here
	rootCmd.AddCommand(buildCmd.NewBuildCmd())
	rootCmd.AddCommand(scheduleCmd.NewScheduleCmd())
	rootCmd.AddCommand(invalidateCmd.NewInvalidateCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".frameforge" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".frameforge")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --cache-file to FFG_CACHE_FILE
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
