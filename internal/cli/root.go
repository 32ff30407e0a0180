package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sonarqube-mcp/internal/config"
	"sonarqube-mcp/internal/server"
	"sonarqube-mcp/internal/sonar"
)

const (
	ExitOK           = 0 // Success
	ExitConfigError  = 1 // Invalid configuration or credentials
	ExitStartupError = 2 // SonarQube unreachable or session rejected
	ExitRuntimeError = 3 // I/O or runtime error
)

var (
	// Global config instance
	cfg *config.Config

	// Global flags
	configFile string
	verbose    bool
	debug      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sonarqube-mcp",
	Short: "MCP server exposing SonarQube analysis data as tools",
	Long: `sonarqube-mcp connects to a SonarQube (or SonarCloud) server and exposes
its Web API as MCP tools: issues, rules, security hotspots, metrics,
projects, permissions, quality profiles, and source code — including a
composite per-file report that bundles issues with their rule definitions
and code snippets.

Configure the connection via sonarqube-mcp.yaml or SONARQUBE_* environment
variables (URL, TOKEN or USERNAME/PASSWORD, and optionally ORGANIZATION
for multi-tenant deployments).

Quick start:
  export SONARQUBE_URL=https://sonarqube.example.com
  export SONARQUBE_TOKEN=squ_...
  sonarqube-mcp doctor
  sonarqube-mcp serve`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Override config with flags if provided
		if verbose {
			cfg.Verbose = true
		}
		if debug {
			cfg.Debug = true
		}

		return nil
	},
}

// SetVersion records the build version for the version command and the MCP
// server info.
func SetVersion(v string) {
	server.Version = v
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case sonar.IsConfiguration(err):
		return ExitConfigError
	case sonar.IsConnection(err):
		return ExitStartupError
	default:
		return ExitRuntimeError
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ~/sonarqube-mcp.yaml or ./sonarqube-mcp.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"debug mode (very verbose)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sonarqube-mcp %s\n", server.Version)
	},
}
