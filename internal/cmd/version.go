package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/dedene/datlink-cli/internal/outfmt"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Go        string `json:"go"`
	UserAgent string `json:"user_agent"`
}

func currentVersion() versionInfo {
	v := strings.TrimSpace(version)
	if v == "" {
		v = "dev"
	}

	return versionInfo{
		Version:   v,
		Commit:    strings.TrimSpace(commit),
		Date:      strings.TrimSpace(date),
		Go:        runtime.Version(),
		UserAgent: "datlink-cli/" + v,
	}
}

// VersionString returns a human-readable version string.
func VersionString() string {
	info := currentVersion()

	var extra []string
	for _, s := range []string{info.Commit, info.Date} {
		if s != "" {
			extra = append(extra, s)
		}
	}

	if len(extra) == 0 {
		return info.Version
	}

	return fmt.Sprintf("%s (%s)", info.Version, strings.Join(extra, " "))
}

// VersionCmd prints version information.
type VersionCmd struct{}

// Run executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	info := currentVersion()
	if cfg := cfgFrom(ctx); cfg.UserAgent != "" {
		info.UserAgent = cfg.UserAgent
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, info)
	}

	fmt.Fprintf(os.Stdout, "datlink %s\n", VersionString())
	if info.Commit != "" {
		fmt.Fprintf(os.Stdout, "  commit: %s\n", info.Commit)
	}
	if info.Date != "" {
		fmt.Fprintf(os.Stdout, "  date:   %s\n", info.Date)
	}
	fmt.Fprintf(os.Stdout, "  go:     %s\n", info.Go)
	fmt.Fprintf(os.Stdout, "  agent:  %s\n", info.UserAgent)
	return nil
}
