// pegplot - chart generator for Pegasus GNSS solution logs
// This program reads the position (.pos) and range (.rng) files written by the
// Pegasus gnss_solution tool and renders protection level, position error,
// satellite count and per-satellite signal-to-noise charts.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"peg-plot/internal/config"
	"peg-plot/internal/logging"
	"peg-plot/internal/pipeline"
	"peg-plot/internal/version"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Command line flag variables
var (
	cfgFile     string // Configuration file path
	verbose     bool   // Enable debug logging
	showVersion bool   // Show version information
	force       bool   // Overwrite an existing file in init-config
	configErr   error  // Error reading the config file, reported by the command
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pegplot",
	Short: "Chart generator for Pegasus GNSS solution logs",
	Long: `pegplot renders the position (.pos) and range (.rng) files of a Pegasus
gnss_solution run as time series charts:

  xpl.png            horizontal and vertical protection levels
  xpe.png            horizontal and vertical position errors
  nsat.png           used and locked satellites
  snr_eleNN.png      signal-to-noise ratio and elevation of satellite NN
  all_snr.png        signal-to-noise ratio of every satellite

Example usage:
  pegplot --pos session.pos --rng session.rng -o plot/
  pegplot --start "2022-02-03 17:00:00" --end "2022-02-03 18:00:00" --sat 5,12
  pegplot init-config > config.yaml`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.Describe("pegplot"))
			return
		}

		if err := runPlot(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// initConfigCmd writes the default configuration
var initConfigCmd = &cobra.Command{
	Use:   "init-config [file]",
	Short: "Write the default configuration as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return config.WriteYAML(cmd.OutOrStdout(), config.DefaultConfig())
		}
		return writeDefaultConfig(args[0], force)
	},
}

// init initializes the CLI flags and configuration
func init() {
	cobra.OnInitialize(initConfig)
	defaults := config.DefaultConfig()

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "./config.yaml", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")

	// Input/Output flags
	rootCmd.Flags().String("pos", defaults.Input.PositionFile, "position (.pos) file, empty to skip")
	rootCmd.Flags().String("rng", defaults.Input.RangeFile, "range (.rng) file, empty to skip")
	rootCmd.Flags().StringP("output", "o", defaults.Output.Dir, "output directory")
	rootCmd.Flags().StringP("manifest", "m", defaults.Output.Manifest, "write a manifest of the written charts to this file")
	rootCmd.Flags().String("manifest-format", defaults.Output.ManifestFormat, "manifest format (json, csv)")

	// Chart flags
	rootCmd.Flags().String("start", defaults.Window.Start, "window start, UTC (2006-01-02 15:04:05)")
	rootCmd.Flags().String("end", defaults.Window.End, "window end, UTC (2006-01-02 15:04:05)")
	rootCmd.Flags().Float64("leap-seconds", defaults.LeapSeconds, "seconds added to every GPS timestamp")
	rootCmd.Flags().IntSlice("sat", defaults.Range.Satellites, "satellites to chart (default all)")
	rootCmd.Flags().Bool("per-satellite", defaults.Range.PerSatellite, "draw one SNR/elevation chart per satellite")
	rootCmd.Flags().String("log-format", defaults.Logging.Format, "log format (text, json)")

	// Bind command line flags to viper configuration keys
	viper.BindPFlag("input.position_file", rootCmd.Flags().Lookup("pos"))
	viper.BindPFlag("input.range_file", rootCmd.Flags().Lookup("rng"))
	viper.BindPFlag("output.dir", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("output.manifest", rootCmd.Flags().Lookup("manifest"))
	viper.BindPFlag("output.manifest_format", rootCmd.Flags().Lookup("manifest-format"))
	viper.BindPFlag("window.start", rootCmd.Flags().Lookup("start"))
	viper.BindPFlag("window.end", rootCmd.Flags().Lookup("end"))
	viper.BindPFlag("leap_seconds", rootCmd.Flags().Lookup("leap-seconds"))
	viper.BindPFlag("range.satellites", rootCmd.Flags().Lookup("sat"))
	viper.BindPFlag("range.per_satellite", rootCmd.Flags().Lookup("per-satellite"))
	viper.BindPFlag("logging.format", rootCmd.Flags().Lookup("log-format"))

	initConfigCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	rootCmd.AddCommand(initConfigCmd)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("yaml")

	// PEGPLOT_OUTPUT_DIR overrides output.dir
	viper.SetEnvPrefix("PEGPLOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	switch {
	case err == nil:
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	case errors.Is(err, fs.ErrNotExist):
		// no config file, defaults and flags only
	default:
		configErr = fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}
}

// runPlot is the main application logic
func runPlot() error {
	if configErr != nil {
		return configErr
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return err
	}
	defer closer.Close()

	fmt.Printf("╔══════════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║                   PEGASUS PLOTTER %-8s                   ║\n", version.Get().Short())
	fmt.Printf("╚══════════════════════════════════════════════════════════════╝\n\n")

	if verbose {
		fmt.Printf("🔧 Configuration:\n")
		fmt.Printf("   Position File: %s\n", cfg.Input.PositionFile)
		fmt.Printf("   Range File: %s\n", cfg.Input.RangeFile)
		fmt.Printf("   Output Directory: %s\n", cfg.Output.Dir)
		fmt.Printf("   Window: %s - %s UTC\n", cfg.Window.Start, cfg.Window.End)
		fmt.Printf("   Leap Seconds: %g\n\n", cfg.LeapSeconds)
	}

	p, err := pipeline.NewProcessor(cfg, logger, os.Stdout)
	if err != nil {
		return err
	}

	result, runErr := p.Run()
	if cfg.Output.Manifest != "" && result != nil {
		if err := result.Export(cfg.Output.Manifest, cfg.Output.ManifestFormat); err != nil {
			logger.Error("manifest not written", "path", cfg.Output.Manifest, "error", err)
		} else {
			fmt.Printf("📝 Manifest written to %s\n", cfg.Output.Manifest)
		}
	}
	return runErr
}

// writeDefaultConfig writes the default configuration to filename
func writeDefaultConfig(filename string, overwrite bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(filename, flags, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", filename)
		}
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if err := config.WriteYAML(f, config.DefaultConfig()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close config file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Default configuration written to %s\n", filename)
	return nil
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
