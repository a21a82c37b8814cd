package acquire

import (
	"os"
	"path/filepath"
	"strings"

	"jdk-autoconf/src/internal/common"
)

// ReadMarker returns the version recorded for an auto-downloaded tool, or ""
// when no marker exists. The marker is the cheap "is this up to date" check
// that avoids re-probing binaries and re-fetching remote descriptors.
func ReadMarker(installRoot string) string {
	data, err := os.ReadFile(filepath.Join(installRoot, common.VersionMarkerFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ClearMarker removes the recorded version so the next acquisition re-checks
// and reinstalls regardless of what is on disk.
func ClearMarker(installRoot string) {
	if err := os.Remove(filepath.Join(installRoot, common.VersionMarkerFile)); err != nil && !os.IsNotExist(err) {
		common.AcquireLogger.Warn("failed to clear version marker in %s: %v", installRoot, err)
	}
}

// WriteMarker records the exact installed version next to the install
// directory. Failures are logged only; a missing marker merely forces a
// re-check next run.
func WriteMarker(installRoot, version string) {
	if err := os.MkdirAll(installRoot, 0755); err != nil {
		common.AcquireLogger.Warn("failed to create install root %s: %v", installRoot, err)
		return
	}
	path := filepath.Join(installRoot, common.VersionMarkerFile)
	if err := os.WriteFile(path, []byte(version+"\n"), 0644); err != nil {
		common.AcquireLogger.Warn("failed to write version marker %s: %v", path, err)
	}
}
