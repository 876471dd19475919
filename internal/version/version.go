// Package version provides build information for the gogb emulator.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// These are set at build time via -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// BuildInfo contains detailed build information.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns detailed build information, filling in VCS data from
// the embedded build info when -ldflags were not used.
func GetBuildInfo() BuildInfo {
	buildInfo := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if buildInfo.GitCommit == "unknown" {
					buildInfo.GitCommit = setting.Value
				}
			case "vcs.time":
				if buildInfo.BuildTime == "unknown" {
					buildInfo.BuildTime = setting.Value
				}
			}
		}
	}

	return buildInfo
}

// GetVersion returns a simple version string.
func GetVersion() string {
	if Version == "dev" {
		buildInfo := GetBuildInfo()
		if buildInfo.GitCommit != "unknown" && len(buildInfo.GitCommit) >= 7 {
			return fmt.Sprintf("dev-%s", buildInfo.GitCommit[:7])
		}
	}
	return Version
}

// PrintBuildInfo prints formatted build information.
func PrintBuildInfo() {
	buildInfo := GetBuildInfo()

	fmt.Printf("gogb - Game Boy emulator\n")
	fmt.Printf("Version:    %s\n", buildInfo.Version)
	fmt.Printf("Git Commit: %s\n", buildInfo.GitCommit)
	fmt.Printf("Build Time: %s\n", buildInfo.BuildTime)
	fmt.Printf("Go Version: %s\n", buildInfo.GoVersion)
	fmt.Printf("Platform:   %s/%s\n", buildInfo.Platform, buildInfo.Arch)
}
