package platform

import (
	"fmt"
	"strings"
)

// Catalog resolves the latest known release and download location per tracked
// tool. It stands in for the remote version descriptor: the pinned releases
// below are what "latest" means for this build.
type Catalog interface {
	LatestVersion(major int) (string, error)
	DownloadURL(major int) (url string, extractDir string, err error)
	GradleVersion() string
	GradleDownloadURL() (url string, extractDir string)
}

// temurinRelease pins one Eclipse Temurin GA release per tracked major.
type temurinRelease struct {
	full    string // full version as recorded in the JDK release file
	tag     string // GitHub release tag, e.g. jdk-21.0.4+7
	fileVer string // version fragment used in asset file names
}

var temurinReleases = map[int]temurinRelease{
	// JDK 8 release files record the legacy 1.x scheme; the full version
	// must match it or marker-cached installs would look newer than they are.
	8:  {full: "1.8.0_422", tag: "jdk8u422-b05", fileVer: "8u422b05"},
	11: {full: "11.0.24", tag: "jdk-11.0.24+8", fileVer: "11.0.24_8"},
	17: {full: "17.0.12", tag: "jdk-17.0.12+7", fileVer: "17.0.12_7"},
	21: {full: "21.0.4", tag: "jdk-21.0.4+7", fileVer: "21.0.4_7"},
}

const gradleVersion = "8.10.2"

// TemurinCatalog implements Catalog against the Eclipse Temurin release
// naming scheme for the host platform.
type TemurinCatalog struct {
	platform Info
}

// NewTemurinCatalog creates a catalog for the given platform.
func NewTemurinCatalog(platform Info) *TemurinCatalog {
	return &TemurinCatalog{platform: platform}
}

// LatestVersion returns the newest pinned full version for a major.
func (c *TemurinCatalog) LatestVersion(major int) (string, error) {
	rel, ok := temurinReleases[major]
	if !ok {
		return "", fmt.Errorf("no known release for JDK %d", major)
	}
	return rel.full, nil
}

// DownloadURL returns the archive URL and the directory name the archive
// extracts to for the current platform.
func (c *TemurinCatalog) DownloadURL(major int) (string, string, error) {
	if !c.platform.IsSupported() {
		return "", "", fmt.Errorf("platform %s not supported for JDK installation", c.platform.GetPlatformString())
	}
	rel, ok := temurinReleases[major]
	if !ok {
		return "", "", fmt.Errorf("no known release for JDK %d", major)
	}

	var osName, ext string
	switch c.platform.GetPlatform() {
	case "linux":
		osName, ext = "linux", "tar.gz"
	case "darwin":
		osName, ext = "mac", "tar.gz"
	case "windows":
		osName, ext = "windows", "zip"
	default:
		return "", "", fmt.Errorf("unsupported platform: %s", c.platform.GetPlatform())
	}

	arch := "x64"
	if c.platform.GetArch() == "arm64" {
		arch = "aarch64"
	}

	filename := fmt.Sprintf("OpenJDK%dU-jdk_%s_%s_hotspot_%s.%s", major, arch, osName, rel.fileVer, ext)
	url := fmt.Sprintf("https://github.com/adoptium/temurin%d-binaries/releases/download/%s/%s",
		major, strings.ReplaceAll(rel.tag, "+", "%2B"), filename)

	extractDir := rel.tag
	if c.platform.GetPlatform() == "darwin" {
		// macOS archives nest the home inside an app bundle.
		extractDir = extractDir + "/Contents/Home"
	}

	return url, extractDir, nil
}

// GradleVersion returns the pinned Gradle distribution version.
func (c *TemurinCatalog) GradleVersion() string {
	return gradleVersion
}

// GradleDownloadURL returns the Gradle distribution URL and its extract dir.
func (c *TemurinCatalog) GradleDownloadURL() (string, string) {
	return fmt.Sprintf("https://services.gradle.org/distributions/gradle-%s-bin.zip", gradleVersion),
		fmt.Sprintf("gradle-%s", gradleVersion)
}
