package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jdk-autoconf/src/internal/jdk"
)

func makeJDK(t *testing.T, dir, version string) {
	t.Helper()

	binDir := filepath.Join(dir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))

	javac := filepath.Join(binDir, "javac")
	if runtime.GOOS == "windows" {
		javac += ".exe"
	}
	require.NoError(t, os.WriteFile(javac, []byte("#!/bin/sh\n"), 0755))

	release := "JAVA_VERSION=\"" + version + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "release"), []byte(release), 0644))
}

// fakeCatalog pins synthetic releases so tests never depend on the real
// release table.
type fakeCatalog struct {
	versions map[int]string
}

func (f fakeCatalog) LatestVersion(major int) (string, error) {
	v, ok := f.versions[major]
	if !ok {
		return "", fmt.Errorf("no known release for JDK %d", major)
	}
	return v, nil
}

func (f fakeCatalog) DownloadURL(major int) (string, string, error) {
	v, err := f.LatestVersion(major)
	if err != nil {
		return "", "", err
	}
	return "https://example.test/jdk-" + v + ".tar.gz", "jdk-" + v, nil
}

func (f fakeCatalog) GradleVersion() string { return "8.10.2" }

func (f fakeCatalog) GradleDownloadURL() (string, string) {
	return "https://example.test/gradle-8.10.2-bin.zip", "gradle-8.10.2"
}

// fakeDownloader records requests and materializes an install at DestDir, or
// fails when told to.
type fakeDownloader struct {
	t        *testing.T
	requests []Request
	fail     map[string]error // keyed by URL
	version  func(url string) string
}

func (d *fakeDownloader) Execute(ctx context.Context, req Request) error {
	d.requests = append(d.requests, req)
	if err := d.fail[req.URL]; err != nil {
		return err
	}
	makeJDK(d.t, req.DestDir, d.version(req.URL))
	return nil
}

func newTestCoordinator(t *testing.T, versions map[int]string) (*Coordinator, *fakeDownloader, string) {
	t.Helper()

	managedRoot := t.TempDir()
	catalog := fakeCatalog{versions: versions}
	dl := &fakeDownloader{
		t:    t,
		fail: map[string]error{},
		version: func(url string) string {
			for _, v := range versions {
				if url == "https://example.test/jdk-"+v+".tar.gz" {
					return v
				}
			}
			return "0.0.0"
		},
	}

	c := NewCoordinator(jdk.NewProbe(), catalog, dl)
	c.managedRoot = managedRoot
	c.installRoot = func(major int) string {
		return filepath.Join(managedRoot, fmt.Sprintf("jdk-%d", major))
	}
	return c, dl, managedRoot
}

func TestEnsureDownloadsAndInstalls(t *testing.T) {
	c, dl, managedRoot := newTestCoordinator(t, map[int]string{21: "21.0.4"})

	outcome := c.Ensure(context.Background(), 21, nil)

	require.NoError(t, outcome.Err)
	assert.Equal(t, StateInstalled, outcome.State)
	assert.Equal(t, 21, outcome.Detection.Major)
	assert.Equal(t, "21.0.4", outcome.Detection.FullVersion)
	assert.Equal(t, filepath.Join(managedRoot, "jdk-21", "current"), outcome.Detection.Home)

	require.Len(t, dl.requests, 1)
	assert.Equal(t, 1, dl.requests[0].StripComponents)
	assert.Equal(t, "21.0.4", ReadMarker(filepath.Join(managedRoot, "jdk-21")))
}

func TestEnsureMarkerShortCircuit(t *testing.T) {
	c, dl, _ := newTestCoordinator(t, map[int]string{21: "21.0.4"})

	first := c.Ensure(context.Background(), 21, nil)
	require.Equal(t, StateInstalled, first.State)
	require.Len(t, dl.requests, 1)

	second := c.Ensure(context.Background(), 21, nil)
	assert.Equal(t, StateInstalled, second.State)
	assert.Equal(t, first.Detection, second.Detection)
	assert.Len(t, dl.requests, 1, "a matching marker must skip the download")
}

func TestEnsureMarkerShortCircuitReportsReleaseFileVersion(t *testing.T) {
	// JDK 8 descriptors use the new scheme while the release file records
	// the legacy 1.x scheme; the detection must carry the release-file
	// version or it would outrank user installs during reconciliation.
	c, dl, _ := newTestCoordinator(t, map[int]string{8: "8.0.422"})
	dl.version = func(string) string { return "1.8.0_422" }

	first := c.Ensure(context.Background(), 8, nil)
	require.Equal(t, StateInstalled, first.State)
	assert.Equal(t, "1.8.0_422", first.Detection.FullVersion)

	second := c.Ensure(context.Background(), 8, nil)
	require.Equal(t, StateInstalled, second.State)
	assert.Len(t, dl.requests, 1, "marker must still short-circuit")
	assert.Equal(t, "1.8.0_422", second.Detection.FullVersion,
		"cached detection must report the probed version, not the descriptor string")
}

func TestEnsureUserInstallNeverReplaced(t *testing.T) {
	c, dl, _ := newTestCoordinator(t, map[int]string{21: "21.0.4"})

	userHome := filepath.Join(t.TempDir(), "jdk-21")
	makeJDK(t, userHome, "21.0.1")

	outcome := c.Ensure(context.Background(), 21, []jdk.RuntimeEntry{
		{Name: "JavaSE-21", Path: userHome},
	})

	assert.Equal(t, StateUserSatisfied, outcome.State)
	assert.Empty(t, dl.requests, "a valid user install must suppress the download entirely")
}

func TestEnsureManagedEntryDoesNotSatisfy(t *testing.T) {
	c, dl, managedRoot := newTestCoordinator(t, map[int]string{21: "21.0.4"})

	// An entry pointing inside the managed root is not a user install; a
	// missing marker means it still goes through the download path.
	managedHome := filepath.Join(managedRoot, "jdk-21", "current")
	outcome := c.Ensure(context.Background(), 21, []jdk.RuntimeEntry{
		{Name: "JavaSE-21", Path: managedHome},
	})

	assert.Equal(t, StateInstalled, outcome.State)
	assert.Len(t, dl.requests, 1)
}

func TestEnsureStaleMarkerRedownloads(t *testing.T) {
	c, dl, managedRoot := newTestCoordinator(t, map[int]string{21: "21.0.4"})

	root := filepath.Join(managedRoot, "jdk-21")
	makeJDK(t, filepath.Join(root, "current"), "21.0.1")
	WriteMarker(root, "21.0.1")

	outcome := c.Ensure(context.Background(), 21, nil)

	assert.Equal(t, StateInstalled, outcome.State)
	assert.Equal(t, "21.0.4", outcome.Detection.FullVersion)
	assert.Len(t, dl.requests, 1, "an outdated marker must trigger a fresh download")
	assert.Equal(t, "21.0.4", ReadMarker(root))
}

func TestEnsureUnknownMajorFails(t *testing.T) {
	c, dl, _ := newTestCoordinator(t, map[int]string{21: "21.0.4"})

	outcome := c.Ensure(context.Background(), 13, nil)

	assert.Equal(t, StateFailed, outcome.State)
	assert.Error(t, outcome.Err)
	assert.Empty(t, dl.requests)
}

func TestEnsureTransportFailure(t *testing.T) {
	c, dl, managedRoot := newTestCoordinator(t, map[int]string{21: "21.0.4"})
	dl.fail["https://example.test/jdk-21.0.4.tar.gz"] = errors.New("connection refused")

	outcome := c.Ensure(context.Background(), 21, nil)

	assert.Equal(t, StateFailed, outcome.State)
	assert.Error(t, outcome.Err)
	assert.Empty(t, ReadMarker(filepath.Join(managedRoot, "jdk-21")), "no marker on failure")
}

func TestEnsureAllIsolatesFailures(t *testing.T) {
	c, dl, _ := newTestCoordinator(t, map[int]string{17: "17.0.12", 21: "21.0.4"})
	dl.fail["https://example.test/jdk-17.0.12.tar.gz"] = errors.New("connection refused")

	detections, errs := c.EnsureAll(context.Background(), []int{17, 21}, nil)

	require.Len(t, errs, 1, "one tool's failure is reported, not fatal")
	require.Len(t, detections, 1)
	assert.Equal(t, 21, detections[0].Major)
}

func TestEnsureGradleInstallsOnce(t *testing.T) {
	// EnsureGradle resolves its root from the real home directory; redirect
	// it for the test.
	t.Setenv("HOME", t.TempDir())

	c, _, _ := newTestCoordinator(t, nil)
	dlGradle := &gradleDownloader{t: t}
	c.downloader = dlGradle

	home, err := c.EnsureGradle(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, home)
	assert.Len(t, dlGradle.requests, 1)

	again, err := c.EnsureGradle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, home, again)
	assert.Len(t, dlGradle.requests, 1, "marker must short-circuit the second run")
}

// gradleDownloader materializes a minimal distribution layout.
type gradleDownloader struct {
	t        *testing.T
	requests []Request
}

func (d *gradleDownloader) Execute(ctx context.Context, req Request) error {
	d.requests = append(d.requests, req)
	binDir := filepath.Join(req.DestDir, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(binDir, "gradle"), []byte("#!/bin/sh\n"), 0755)
}
