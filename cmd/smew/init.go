package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed templates
var templates embed.FS

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new smew project with a sample scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(".", projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(dir, projectName string) error {
	configTemplate, err := templates.ReadFile("templates/smew.yaml.tmpl")
	if err != nil {
		return err
	}
	files := []struct {
		path     string
		contents []byte
	}{
		{path: "smew.yaml", contents: fmt.Appendf(nil, string(configTemplate), projectName)},
		{path: filepath.Join("scenarios", "bedroom.yaml")},
		{path: filepath.Join("scenarios", "bedroom.lua")},
	}

	for i := range files {
		path := filepath.Join(dir, files[i].path)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if files[i].contents == nil {
			data, err := templates.ReadFile("templates/" + filepath.Base(files[i].path))
			if err != nil {
				return err
			}
			files[i].contents = data
		}
	}

	if err := os.MkdirAll(filepath.Join(dir, "scenarios"), 0o755); err != nil {
		return fmt.Errorf("creating scenarios directory: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.path)
		if err := os.WriteFile(path, f.contents, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
