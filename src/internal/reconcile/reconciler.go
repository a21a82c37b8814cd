package reconcile

import (
	"sort"
	"sync"

	"jdk-autoconf/src/config"
	"jdk-autoconf/src/internal/common"
	"jdk-autoconf/src/internal/jdk"
	"jdk-autoconf/src/internal/platform"
	"jdk-autoconf/src/internal/settings"
)

// Reconciler merges scan detections into the persisted runtime list. It is
// the single writer of that list: concurrent scans and acquisitions may
// produce detections in parallel, but merge passes never interleave.
type Reconciler struct {
	mu            sync.Mutex
	store         settings.Store
	probe         *jdk.Probe
	managedRoot   string
	preferredName string
}

// New creates a reconciler writing through the given store.
func New(store settings.Store, probe *jdk.Probe) *Reconciler {
	return &Reconciler{
		store:         store,
		probe:         probe,
		managedRoot:   common.ManagedRoot(),
		preferredName: jdk.NameForMajor(platform.PreferredLTS),
	}
}

// Result reports the reconciled list and what the pass did to it.
type Result struct {
	Entries []jdk.RuntimeEntry
	Changed bool
	Removed int
}

// Reconcile applies the merge rules and writes the list back when it changed.
// Removals are awaited so the host never reads a document still naming a
// pruned entry; all other write-backs are fire-and-forget.
func (r *Reconciler) Reconcile(detected map[int]jdk.DetectedJdk, allowedNames []string) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, _ := r.store.GetDefinition(config.KeyRuntimes)
	loaded := jdk.DecodeEntries(stored)

	original := jdk.CloneEntries(loaded)
	jdk.SortEntries(original)

	entries := jdk.CloneEntries(loaded)
	removed := 0

	// Rule 1: drop entries outside the supported allow-list.
	if len(allowedNames) > 0 {
		allowed := make(map[string]bool, len(allowedNames))
		for _, name := range allowedNames {
			allowed[name] = true
		}
		kept := entries[:0]
		for _, e := range entries {
			if !allowed[e.Name] {
				common.CLILogger.Info("removing unsupported runtime %s (%s)", e.Name, e.Path)
				removed++
				continue
			}
			kept = append(kept, e)
		}
		entries = kept
	}

	// Rule 2: repair imprecise paths, prune entries whose home vanished.
	repaired := entries[:0]
	for _, e := range entries {
		fixed, ok := r.probe.FixPath(e.Path)
		if !ok {
			common.CLILogger.Info("removing runtime %s: invalid path %s", e.Name, e.Path)
			removed++
			continue
		}
		if fixed != e.Path {
			common.CLILogger.Info("fixing runtime %s path: %s -> %s", e.Name, e.Path, fixed)
			e.Path = fixed
		}
		repaired = append(repaired, e)
	}
	entries = repaired

	// Rule 3: fold detections in, in major order for deterministic logs.
	majors := make([]int, 0, len(detected))
	for major := range detected {
		majors = append(majors, major)
	}
	sort.Ints(majors)

	for _, major := range majors {
		d := detected[major]
		name := jdk.NameForMajor(major)

		idx := indexByName(entries, name)
		if idx < 0 {
			entries = append(entries, jdk.RuntimeEntry{Name: name, Path: d.Home})
			continue
		}

		current := entries[idx]
		if common.IsPathUnder(r.managedRoot, current.Path) {
			// A managed install never wins over a real one.
			if current.Path != d.Home {
				common.CLILogger.Info("replacing managed runtime %s with detected install %s", name, d.Home)
				entries[idx].Path = d.Home
			}
			continue
		}

		// User installs are replaced only by a strictly newer detection.
		if current.Path == d.Home {
			continue
		}
		if existing, ok := r.probe.Version(current.Path); ok && jdk.IsNewer(d.FullVersion, existing) {
			common.CLILogger.Info("updating runtime %s: %s -> %s (newer %s)", name, current.Path, d.Home, d.FullVersion)
			entries[idx].Path = d.Home
		}
	}

	// Rule 4: exactly one default; elect once, never reassign.
	electDefault(entries, r.preferredName)

	// Rule 5: compare sorted so pure reordering never triggers a write.
	jdk.SortEntries(entries)
	changed := !jdk.EntriesEqual(original, entries)

	if changed {
		encoded := jdk.EncodeEntries(entries)
		if removed > 0 {
			if err := r.store.UpdateAwaited(config.KeyRuntimes, encoded); err != nil {
				common.CLILogger.Error("failed to persist runtime list: %v", err)
			}
		} else {
			r.store.UpdateAsync(config.KeyRuntimes, encoded)
		}
	}

	return Result{Entries: entries, Changed: changed, Removed: removed}
}

func indexByName(entries []jdk.RuntimeEntry, name string) int {
	for i := range entries {
		if entries[i].Name == name {
			return i
		}
	}
	return -1
}

// electDefault marks the preferred runtime as default when none is marked.
// An existing default is left alone; duplicate defaults (a corrupt list) are
// collapsed to the first.
func electDefault(entries []jdk.RuntimeEntry, preferredName string) {
	seen := false
	for i := range entries {
		if !entries[i].Default {
			continue
		}
		if seen {
			entries[i].Default = false
			continue
		}
		seen = true
	}
	if seen || len(entries) == 0 {
		return
	}

	if idx := indexByName(entries, preferredName); idx >= 0 {
		entries[idx].Default = true
		return
	}

	// Preferred major absent: fall back to the highest available major.
	bestIdx, bestMajor := -1, 0
	for i := range entries {
		if major := jdk.MajorFromName(entries[i].Name); major > bestMajor {
			bestIdx, bestMajor = i, major
		}
	}
	if bestIdx >= 0 {
		entries[bestIdx].Default = true
	}
}
