package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print smew version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(versionString(version, debug.ReadBuildInfo))
		},
	}
}

// versionString falls back to the module version recorded by go install when
// no version was stamped at link time.
func versionString(v string, buildInfo func() (*debug.BuildInfo, bool)) string {
	if v == "dev" {
		if info, ok := buildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return fmt.Sprintf("smew %s (%s %s/%s)", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
