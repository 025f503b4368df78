package rollbar

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v4/host"
)

// buildServerInfo captures host attributes attached to every payload.
// Collection is best-effort: unavailable details are omitted rather than failing.
// Params: ctx bounds the host info lookup.
// Returns: server attribute map, never nil.
func buildServerInfo(ctx context.Context) map[string]any {
	server := map[string]any{
		"pid": int64(os.Getpid()),
	}

	if hostname, err := os.Hostname(); err == nil {
		server["host"] = hostname
	}
	if cwd, err := os.Getwd(); err == nil {
		server["root"] = cwd
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return server
	}

	server["os"] = info.OS
	server["platform"] = info.Platform
	server["platform_version"] = info.PlatformVersion
	server["kernel_version"] = info.KernelVersion
	server["uptime"] = int64(info.Uptime)

	return server
}
