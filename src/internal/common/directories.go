package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// VersionMarkerFile is the plain-text file recording the exact version of an
// auto-downloaded tool, written next to its install directory.
const VersionMarkerFile = ".version-marker"

// ManagedRoot returns the directory tree owned by the engine for auto-downloaded
// tools, as opposed to user-installed locations.
// Format: ~/.jdk-autoconf/runtimes
func ManagedRoot() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".jdk-autoconf", "runtimes")
	}
	return filepath.Join(homeDir, ".jdk-autoconf", "runtimes")
}

// RuntimeInstallRoot returns the managed install directory for a JDK major version.
// Format: ~/.jdk-autoconf/runtimes/jdk-{major}
func RuntimeInstallRoot(major int) string {
	return filepath.Join(ManagedRoot(), fmt.Sprintf("jdk-%d", major))
}

// RuntimeInstallHome returns the JDK home inside a managed install directory.
// Downloads are unpacked under a stable "current" directory so config paths
// survive version bumps.
func RuntimeInstallHome(major int) string {
	return filepath.Join(RuntimeInstallRoot(major), "current")
}

// GradleInstallRoot returns the managed install directory for the Gradle distribution.
func GradleInstallRoot() string {
	return filepath.Join(ManagedRoot(), "gradle")
}

// IsPathUnder reports whether path lies inside root.
func IsPathUnder(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// IsManagedPath reports whether path lies inside the managed storage root.
// Paths outside it are treated as user installs and never overwritten.
func IsManagedPath(path string) bool {
	return IsPathUnder(ManagedRoot(), path)
}

// ExpandPath expands ~ to the user's home directory in file paths.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("failed to get user home directory: %w", err)
	}

	if path == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}
