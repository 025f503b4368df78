package config

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const (
	gitBinary          = "git"
	gitTimeout         = 5 * time.Second
	unknownCodeVersion = "unknown"
)

// resolveCodeVersion resolves the current git commit hash for payload code versions.
// Params: root is the repository lookup directory.
// Returns: full commit hash, or "unknown" when git or the repository is unavailable.
func resolveCodeVersion(root string) string {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	command := exec.CommandContext(ctx, gitBinary, "rev-parse", "HEAD")
	command.Dir = root

	output, err := command.Output()
	if err != nil {
		return unknownCodeVersion
	}

	version := strings.TrimSpace(string(output))
	if version == "" {
		return unknownCodeVersion
	}
	return version
}
