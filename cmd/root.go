package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yashkamboj/portfolio/internal/config"
)

// Cfg holds the configuration loaded before any command runs.
var Cfg *config.Config

// RootCmd is the base command. Sub-commands register themselves from their
// own init() functions.
var RootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio website backend",
	Long: `Backend of the portfolio website: contact form, projects, blog,
visitor analytics and the admin dashboard.`,
}

// Execute runs the command line. It is called from main.go.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig loads the configuration. A missing file falls back to defaults;
// a malformed one stops the program.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
}
