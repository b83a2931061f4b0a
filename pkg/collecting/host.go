// Package collecting aggregates host facts from the Linux pseudo
// filesystems. Every call reads its sources afresh; nothing is cached.
package collecting

import (
	"log/slog"
	"strconv"

	"HostFacts/pkg/failure"
	"HostFacts/pkg/probing"
)

// Host answers fact queries against one set of /proc, /sys and /etc
// roots.
type Host struct {
	FS probing.FS
	// Logger receives debug records for entries skipped during
	// enumeration. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Concurrent fans per-process reads out over a worker pool.
	Concurrent bool
}

// NewHost returns a Host reading from fs.
func NewHost(fs probing.FS, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{FS: fs, Logger: logger}
}

func (h *Host) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// skip records an entry dropped from an enumeration.
func (h *Host) skip(namespace, entry string, err error) {
	h.logger().Debug("skipping entry", "namespace", namespace, "entry", entry, "error", err)
}

// absent reports whether err means the source vanished or never existed,
// as opposed to a decode failure.
func absent(err error) bool {
	return failure.IsKind(err, failure.SourceUnavailable)
}

func pidDir(pid int) string { return strconv.Itoa(pid) }
