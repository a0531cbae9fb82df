// Command addrindex drives the three-stage OSM address pipeline:
// parse a PBF file into address lines, compress lines into a World
// snapshot, and serve prefix-completion queries over a snapshot.
package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "addrindex",
	Short: "OSM address extraction, compaction and prefix-query serving",
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var w zerolog.ConsoleWriter
	if logFormat == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}
	w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func init() {
	_ = godotenv.Load() // no .env file is the common case; system environment still applies

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log output format (console, json)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getEnv gets an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
