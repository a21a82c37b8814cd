package jdk

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RuntimeEntry is one named, path-bearing record representing a usable JDK
// installation. The persisted list of these entries is the single source of
// truth between runs.
type RuntimeEntry struct {
	Name    string `yaml:"name" json:"name"`
	Path    string `yaml:"path" json:"path"`
	Default bool   `yaml:"default,omitempty" json:"default,omitempty"`
}

// DetectedJdk is an ephemeral scan result, produced fresh each run and only
// ever folded into the RuntimeEntry list.
type DetectedJdk struct {
	Major       int
	FullVersion string
	Home        string
}

// DownloadTarget is the plan for one acquisition attempt: where the archive
// comes from, where the install lands, and the version recorded on success.
type DownloadTarget struct {
	Major         int
	URL           string
	DestDir       string
	VersionMarker string
}

// NameForMajor derives the canonical runtime tag from a major version number.
// The banding is the historical execution-environment naming: J2SE for 5 and
// below, JavaSE-1.x through 8, plain JavaSE-x from 9 on.
func NameForMajor(major int) string {
	switch {
	case major <= 5:
		return fmt.Sprintf("J2SE-1.%d", major)
	case major <= 8:
		return fmt.Sprintf("JavaSE-1.%d", major)
	default:
		return fmt.Sprintf("JavaSE-%d", major)
	}
}

// MajorFromName reverses NameForMajor. Returns 0 when name is not a
// recognized runtime tag.
func MajorFromName(name string) int {
	idx := strings.LastIndex(name, "-")
	if idx < 0 || (!strings.HasPrefix(name, "J2SE-") && !strings.HasPrefix(name, "JavaSE-")) {
		return 0
	}
	ver := name[idx+1:]
	ver = strings.TrimPrefix(ver, "1.")
	major, err := strconv.Atoi(ver)
	if err != nil || major <= 0 {
		return 0
	}
	return major
}

// CloneEntries returns a deep copy so callers can mutate freely and still
// detect no-op runs against the original.
func CloneEntries(entries []RuntimeEntry) []RuntimeEntry {
	out := make([]RuntimeEntry, len(entries))
	copy(out, entries)
	return out
}

// SortEntries orders entries by major version (name as tie-break for
// unrecognized tags) so pure reordering never looks like a change and
// JavaSE-9 sorts before JavaSE-21.
func SortEntries(entries []RuntimeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		mi, mj := MajorFromName(entries[i].Name), MajorFromName(entries[j].Name)
		if mi != mj {
			return mi < mj
		}
		return entries[i].Name < entries[j].Name
	})
}

// EntriesEqual compares two entry lists field by field.
func EntriesEqual(a, b []RuntimeEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EncodeEntries converts entries to the generic shape stored in settings.
func EncodeEntries(entries []RuntimeEntry) []interface{} {
	out := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		m := map[string]interface{}{
			"name": e.Name,
			"path": e.Path,
		}
		if e.Default {
			m["default"] = true
		}
		out = append(out, m)
	}
	return out
}

// DecodeEntries converts a stored settings value back into entries. Malformed
// elements are skipped rather than failing the whole list.
func DecodeEntries(value interface{}) []RuntimeEntry {
	list, ok := value.([]interface{})
	if !ok {
		return nil
	}
	out := make([]RuntimeEntry, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		path, _ := m["path"].(string)
		if name == "" || path == "" {
			continue
		}
		def, _ := m["default"].(bool)
		out = append(out, RuntimeEntry{Name: name, Path: path, Default: def})
	}
	return out
}
