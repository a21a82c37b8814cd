package reconcile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jdk-autoconf/src/config"
	"jdk-autoconf/src/internal/jdk"
	"jdk-autoconf/src/internal/settings"
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

func newTestReconciler(t *testing.T) (*Reconciler, *settings.FileStore) {
	t.Helper()
	store, err := settings.NewFileStore(filepath.Join(t.TempDir(), "settings.yaml"), nil)
	require.NoError(t, err)
	t.Cleanup(store.Flush)

	r := New(store, jdk.NewProbe())
	r.managedRoot = t.TempDir()
	return r, store
}

func seedRuntimes(t *testing.T, store *settings.FileStore, entries []jdk.RuntimeEntry) {
	t.Helper()
	require.NoError(t, store.UpdateAwaited(config.KeyRuntimes, jdk.EncodeEntries(entries)))
}

func entryByName(entries []jdk.RuntimeEntry, name string) *jdk.RuntimeEntry {
	for i := range entries {
		if entries[i].Name == name {
			return &entries[i]
		}
	}
	return nil
}

func TestReconcileAppendsAndUpgrades(t *testing.T) {
	r, store := newTestReconciler(t)

	old17 := filepath.Join(t.TempDir(), "jdk-17.0.1")
	makeJDK(t, old17, "17.0.1")
	new17 := filepath.Join(t.TempDir(), "jdk-17.0.2")
	makeJDK(t, new17, "17.0.2")
	home21 := filepath.Join(t.TempDir(), "jdk-21")
	makeJDK(t, home21, "21.0.4")

	seedRuntimes(t, store, []jdk.RuntimeEntry{{Name: "JavaSE-17", Path: old17}})
	before := store.Writes()

	res := r.Reconcile(map[int]jdk.DetectedJdk{
		17: {Major: 17, FullVersion: "17.0.2", Home: new17},
		21: {Major: 21, FullVersion: "21.0.4", Home: home21},
	}, nil)

	require.True(t, res.Changed)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, new17, entryByName(res.Entries, "JavaSE-17").Path)
	assert.Equal(t, home21, entryByName(res.Entries, "JavaSE-21").Path)
	assert.Equal(t, before+1, store.Writes(), "one merge pass persists exactly once")
}

func TestReconcileNeverDowngradesUserInstall(t *testing.T) {
	r, store := newTestReconciler(t)

	home := filepath.Join(t.TempDir(), "jdk-21.0.4")
	makeJDK(t, home, "21.0.4")
	older := filepath.Join(t.TempDir(), "jdk-21.0.1")
	makeJDK(t, older, "21.0.1")

	seedRuntimes(t, store, []jdk.RuntimeEntry{{Name: "JavaSE-21", Path: home, Default: true}})

	res := r.Reconcile(map[int]jdk.DetectedJdk{
		21: {Major: 21, FullVersion: "21.0.1", Home: older},
	}, nil)

	assert.False(t, res.Changed)
	assert.Equal(t, home, entryByName(res.Entries, "JavaSE-21").Path)
}

func TestReconcileLegacySchemeUserInstallNotDisplaced(t *testing.T) {
	r, store := newTestReconciler(t)

	user := filepath.Join(t.TempDir(), "jdk1.8.0_422")
	makeJDK(t, user, "1.8.0_422")
	managed := filepath.Join(r.managedRoot, "jdk-8", "current")
	makeJDK(t, managed, "1.8.0_422")

	seedRuntimes(t, store, []jdk.RuntimeEntry{{Name: "JavaSE-1.8", Path: user, Default: true}})

	res := r.Reconcile(map[int]jdk.DetectedJdk{
		8: {Major: 8, FullVersion: "1.8.0_422", Home: managed},
	}, nil)

	assert.False(t, res.Changed)
	assert.Equal(t, user, entryByName(res.Entries, "JavaSE-1.8").Path,
		"an equal-version managed install must never displace a user install")
}

func TestReconcileManagedLosesToUserDetection(t *testing.T) {
	r, store := newTestReconciler(t)

	managed := filepath.Join(r.managedRoot, "jdk-21", "current")
	makeJDK(t, managed, "21.0.4")
	user := filepath.Join(t.TempDir(), "jdk-21")
	makeJDK(t, user, "21.0.1")

	seedRuntimes(t, store, []jdk.RuntimeEntry{{Name: "JavaSE-21", Path: managed}})

	res := r.Reconcile(map[int]jdk.DetectedJdk{
		21: {Major: 21, FullVersion: "21.0.1", Home: user},
	}, nil)

	require.True(t, res.Changed)
	assert.Equal(t, user, entryByName(res.Entries, "JavaSE-21").Path,
		"a user install wins over a managed one even when older")
}

func TestReconcilePrunesVanishedHomes(t *testing.T) {
	r, store := newTestReconciler(t)

	home := filepath.Join(t.TempDir(), "jdk-21")
	makeJDK(t, home, "21.0.4")
	gone := filepath.Join(t.TempDir(), "deleted-jdk")

	seedRuntimes(t, store, []jdk.RuntimeEntry{
		{Name: "JavaSE-21", Path: home, Default: true},
		{Name: "JavaSE-17", Path: gone},
	})

	res := r.Reconcile(nil, nil)

	require.True(t, res.Changed)
	assert.Equal(t, 1, res.Removed)
	assert.Nil(t, entryByName(res.Entries, "JavaSE-17"))

	// Removals are persisted before Reconcile returns.
	stored, ok := store.GetDefinition(config.KeyRuntimes)
	require.True(t, ok)
	assert.Len(t, jdk.DecodeEntries(stored), 1)
}

func TestReconcileRepairsImprecisePaths(t *testing.T) {
	r, store := newTestReconciler(t)

	home := filepath.Join(t.TempDir(), "jdk-21")
	makeJDK(t, home, "21.0.4")

	seedRuntimes(t, store, []jdk.RuntimeEntry{{Name: "JavaSE-21", Path: filepath.Join(home, "bin")}})

	res := r.Reconcile(nil, nil)

	require.True(t, res.Changed)
	assert.Equal(t, home, entryByName(res.Entries, "JavaSE-21").Path)
}

func TestReconcileDropsUnsupportedNames(t *testing.T) {
	r, store := newTestReconciler(t)

	home := filepath.Join(t.TempDir(), "jdk-21")
	makeJDK(t, home, "21.0.4")
	home8 := filepath.Join(t.TempDir(), "jdk-8")
	makeJDK(t, home8, "1.8.0_422")

	seedRuntimes(t, store, []jdk.RuntimeEntry{
		{Name: "JavaSE-21", Path: home},
		{Name: "JavaSE-1.8", Path: home8},
	})

	res := r.Reconcile(nil, []string{"JavaSE-17", "JavaSE-21"})

	assert.Equal(t, 1, res.Removed)
	assert.Nil(t, entryByName(res.Entries, "JavaSE-1.8"))
	assert.NotNil(t, entryByName(res.Entries, "JavaSE-21"))
}

func TestReconcileDefaultElection(t *testing.T) {
	r, _ := newTestReconciler(t)

	home17 := filepath.Join(t.TempDir(), "jdk-17")
	makeJDK(t, home17, "17.0.12")
	home21 := filepath.Join(t.TempDir(), "jdk-21")
	makeJDK(t, home21, "21.0.4")

	res := r.Reconcile(map[int]jdk.DetectedJdk{
		17: {Major: 17, FullVersion: "17.0.12", Home: home17},
		21: {Major: 21, FullVersion: "21.0.4", Home: home21},
	}, nil)

	assert.True(t, entryByName(res.Entries, "JavaSE-21").Default, "preferred runtime becomes default")
	assert.False(t, entryByName(res.Entries, "JavaSE-17").Default)
}

func TestReconcileKeepsExistingDefault(t *testing.T) {
	r, store := newTestReconciler(t)

	home17 := filepath.Join(t.TempDir(), "jdk-17")
	makeJDK(t, home17, "17.0.12")
	home21 := filepath.Join(t.TempDir(), "jdk-21")
	makeJDK(t, home21, "21.0.4")

	seedRuntimes(t, store, []jdk.RuntimeEntry{{Name: "JavaSE-17", Path: home17, Default: true}})

	res := r.Reconcile(map[int]jdk.DetectedJdk{
		21: {Major: 21, FullVersion: "21.0.4", Home: home21},
	}, nil)

	assert.True(t, entryByName(res.Entries, "JavaSE-17").Default, "a user-chosen default is never reassigned")
	assert.False(t, entryByName(res.Entries, "JavaSE-21").Default)
}

func TestReconcileIdempotent(t *testing.T) {
	r, store := newTestReconciler(t)

	home := filepath.Join(t.TempDir(), "jdk-21")
	makeJDK(t, home, "21.0.4")

	detected := map[int]jdk.DetectedJdk{
		21: {Major: 21, FullVersion: "21.0.4", Home: home},
	}

	first := r.Reconcile(detected, nil)
	require.True(t, first.Changed)
	writes := store.Writes()

	second := r.Reconcile(detected, nil)
	assert.False(t, second.Changed)
	assert.Equal(t, writes, store.Writes(), "unchanged environment must not rewrite the list")
}
