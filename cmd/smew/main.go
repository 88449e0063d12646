package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logFormat  string
	logLevel   string
)

func main() {
	root := &cobra.Command{
		Use:   "smew",
		Short: "Generative narrative simulation engine",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "smew.yaml", "Project config file")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text or json)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(runCmd())
	root.AddCommand(eventsCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(transcriptCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(schemaCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
