package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jgoulah/simbev/internal/config"
	"github.com/jgoulah/simbev/internal/database"
	"github.com/jgoulah/simbev/internal/log"
	"github.com/jgoulah/simbev/internal/season"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dbPath  string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "simbev",
	Short: "Build regional mobility time series for EV charging simulation",
	Long: `simbev assembles minute-resolution trip-start time series per region from seasonal
weekly probability tables, or samples synthetic weeks from recorded trip data.
Results are stored in a local SQLite database and can be published over MQTT.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./simbev.db)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "simbev.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// parseRange parses the --start/--end flag pair
func parseRange(start, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--start and --end are required (YYYY-MM-DD)")
	}
	from, err := season.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing --start date: %w", err)
	}
	to, err := season.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing --end date: %w", err)
	}
	return from, to, nil
}

// createOutput opens path for writing, or stdout for "-"
func createOutput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return os.Create(path)
}
