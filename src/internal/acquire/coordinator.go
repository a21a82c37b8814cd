package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jdk-autoconf/src/internal/common"
	"jdk-autoconf/src/internal/jdk"
	"jdk-autoconf/src/internal/platform"
)

// State names the acquisition phases for one tracked tool.
type State string

const (
	StateUnconfigured  State = "unconfigured"
	StateCheckingLocal State = "checking-local"
	StateUserSatisfied State = "user-satisfied"
	StateNeedsDownload State = "needs-download"
	StateDownloading   State = "downloading"
	StateExtracting    State = "extracting"
	StateInstalled     State = "installed"
	StateFailed        State = "failed"
)

// Outcome is the terminal result of one tool's acquisition.
type Outcome struct {
	Major     int
	State     State
	Detection jdk.DetectedJdk // populated when State == StateInstalled
	Err       error
}

// Coordinator drives the per-tool acquisition state machine. It never
// downloads over a valid user install, short-circuits on a matching version
// marker, and feeds successful installs back to reconciliation as detections.
type Coordinator struct {
	probe       *jdk.Probe
	catalog     platform.Catalog
	downloader  Downloader
	managedRoot string
	installRoot func(major int) string
}

// NewCoordinator creates an acquisition coordinator.
func NewCoordinator(probe *jdk.Probe, catalog platform.Catalog, downloader Downloader) *Coordinator {
	return &Coordinator{
		probe:       probe,
		catalog:     catalog,
		downloader:  downloader,
		managedRoot: common.ManagedRoot(),
		installRoot: common.RuntimeInstallRoot,
	}
}

// EnsureAll runs acquisitions for all majors concurrently. Failure domains
// are isolated: one tool's failure neither cancels nor blocks the others.
func (c *Coordinator) EnsureAll(ctx context.Context, majors []int, entries []jdk.RuntimeEntry) ([]jdk.DetectedJdk, []error) {
	outcomeCh := make(chan Outcome, len(majors))

	for _, major := range majors {
		go func(m int) {
			outcomeCh <- c.Ensure(ctx, m, entries)
		}(major)
	}

	var detections []jdk.DetectedJdk
	var errs []error
	for range majors {
		outcome := <-outcomeCh
		if outcome.Err != nil {
			// Download failures are the one class the operator can act on.
			common.AcquireLogger.Error("JDK %d acquisition failed: %v", outcome.Major, outcome.Err)
			errs = append(errs, fmt.Errorf("jdk %d: %w", outcome.Major, outcome.Err))
			continue
		}
		if outcome.State == StateInstalled {
			detections = append(detections, outcome.Detection)
		}
	}
	return detections, errs
}

// Ensure runs the state machine for one JDK major.
func (c *Coordinator) Ensure(ctx context.Context, major int, entries []jdk.RuntimeEntry) Outcome {
	// checking-local: a valid install outside the managed root belongs to
	// the user and is never replaced.
	name := jdk.NameForMajor(major)
	for _, e := range entries {
		if e.Name != name {
			continue
		}
		if !common.IsPathUnder(c.managedRoot, e.Path) && c.probe.IsValidHome(e.Path) {
			common.AcquireLogger.Debug("JDK %d satisfied by user install at %s", major, e.Path)
			return Outcome{Major: major, State: StateUserSatisfied}
		}
	}

	// needs-download: consult the release descriptor and the local marker.
	latest, err := c.catalog.LatestVersion(major)
	if err != nil {
		return Outcome{Major: major, State: StateFailed, Err: err}
	}

	root := c.installRoot(major)
	home := filepath.Join(root, "current")
	if ReadMarker(root) == latest {
		// Report the version the release file records, not the descriptor
		// string: JDK 8 release files use the legacy 1.x scheme, and a
		// new-scheme string here would outrank user installs downstream.
		if version, ok := c.probe.Version(home); ok {
			common.AcquireLogger.Debug("JDK %d already installed at %s (marker %s)", major, home, latest)
			return Outcome{
				Major:     major,
				State:     StateInstalled,
				Detection: jdk.DetectedJdk{Major: major, FullVersion: version, Home: home},
			}
		}
	}

	// downloading / extracting.
	url, extractDir, err := c.catalog.DownloadURL(major)
	if err != nil {
		return Outcome{Major: major, State: StateFailed, Err: err}
	}
	target := jdk.DownloadTarget{
		Major:         major,
		URL:           url,
		DestDir:       home,
		VersionMarker: latest,
	}

	archive := filepath.Join(root, archiveName(target.URL))
	if err := os.RemoveAll(target.DestDir); err != nil {
		return Outcome{Major: major, State: StateFailed, Err: fmt.Errorf("failed to clear install directory: %w", err)}
	}
	c.probe.Invalidate(target.DestDir)

	req := Request{
		URL:             target.URL,
		DestFile:        archive,
		DestDir:         target.DestDir,
		StripComponents: strings.Count(extractDir, "/") + 1,
	}
	if err := c.downloader.Execute(ctx, req); err != nil {
		return Outcome{Major: major, State: StateFailed, Err: err}
	}
	os.Remove(archive)

	// A bad extraction leaves no valid home; fail silently and let the next
	// run retry. Configuration keeps its previous value.
	c.probe.Invalidate(target.DestDir)
	version, ok := c.probe.Version(target.DestDir)
	if !ok {
		common.AcquireLogger.Warn("JDK %d install at %s failed validation after extraction", major, target.DestDir)
		return Outcome{Major: major, State: StateFailed}
	}

	WriteMarker(root, target.VersionMarker)
	common.AcquireLogger.Info("JDK %d installed at %s (version %s)", major, target.DestDir, version)
	return Outcome{
		Major:     major,
		State:     StateInstalled,
		Detection: jdk.DetectedJdk{Major: major, FullVersion: version, Home: target.DestDir},
	}
}

// EnsureGradle runs the same state machine for the singleton Gradle
// distribution. It returns the installed distribution directory, or "" when
// nothing was (or could be) installed.
func (c *Coordinator) EnsureGradle(ctx context.Context) (string, error) {
	root := common.GradleInstallRoot()
	home := filepath.Join(root, "current")
	version := c.catalog.GradleVersion()

	valid := func() bool {
		return common.FindExecutable(filepath.Join(home, "bin"), "gradle") != ""
	}

	if ReadMarker(root) == version && valid() {
		common.AcquireLogger.Debug("Gradle %s already installed at %s", version, home)
		return home, nil
	}

	url, extractDir := c.catalog.GradleDownloadURL()
	archive := filepath.Join(root, archiveName(url))
	if err := os.RemoveAll(home); err != nil {
		return "", fmt.Errorf("failed to clear gradle install directory: %w", err)
	}

	req := Request{
		URL:             url,
		DestFile:        archive,
		DestDir:         home,
		StripComponents: strings.Count(extractDir, "/") + 1,
	}
	if err := c.downloader.Execute(ctx, req); err != nil {
		common.AcquireLogger.Error("Gradle download failed: %v", err)
		return "", err
	}
	os.Remove(archive)

	if !valid() {
		common.AcquireLogger.Warn("Gradle install at %s failed validation after extraction", home)
		return "", nil
	}

	WriteMarker(root, version)
	common.AcquireLogger.Info("Gradle %s installed at %s", version, home)
	return home, nil
}

func archiveName(url string) string {
	if strings.HasSuffix(url, ".zip") {
		return "download.zip"
	}
	return "download.tar.gz"
}
