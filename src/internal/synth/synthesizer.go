package synth

import (
	"path/filepath"

	"jdk-autoconf/src/config"
	"jdk-autoconf/src/internal/common"
	"jdk-autoconf/src/internal/jdk"
	"jdk-autoconf/src/internal/platform"
	"jdk-autoconf/src/internal/settings"
)

// secondaryKey describes a language-server home managed on behalf of an
// optional extension.
type secondaryKey struct {
	capability string
	key        string
	minMajor   int
}

var secondaryKeys = []secondaryKey{
	{capability: CapSpringTools, key: config.KeySpringJavaHome, minMajor: 17},
	{capability: CapApex, key: config.KeyApexJavaHome, minMajor: 11},
}

// Synthesizer derives every dependent configuration key from the reconciled
// runtime list. The uniform policy: keep what the user set while it is still
// valid, otherwise compute a default; remove only known-deprecated keys.
type Synthesizer struct {
	store         settings.Store
	probe         *jdk.Probe
	caps          Capabilities
	goos          string
	shell         string
	preferredName string
}

// New creates a synthesizer. shell is the login shell used for managed
// terminal profiles; empty selects the platform default.
func New(store settings.Store, probe *jdk.Probe, caps Capabilities, goos, shell string) *Synthesizer {
	if shell == "" {
		shell = "/bin/zsh"
	}
	return &Synthesizer{
		store:         store,
		probe:         probe,
		caps:          caps,
		goos:          goos,
		shell:         shell,
		preferredName: jdk.NameForMajor(platform.PreferredLTS),
	}
}

// Apply synthesizes all derived keys from entries and returns the number of
// writes issued. A second run against unchanged input must return zero.
func (s *Synthesizer) Apply(entries []jdk.RuntimeEntry) int {
	target, ok := s.targetEntry(entries)
	writes := 0

	if ok {
		writes += s.applyPrimaryHome(target)
		writes += s.applySecondaryHomes(target)
		writes += s.applyGradleHome(target)
		if s.goos == "darwin" {
			// Only managed on the platform where shell startup files are
			// known to clobber injected variables.
			writes += s.applyTerminalEnv(target)
			writes += s.applyTerminalProfiles(entries)
		}
	}

	writes += s.removeDeprecated()
	return writes
}

// targetEntry picks the runtime every derived default points at: the
// designated LTS if present, else the selected default, else the first entry.
func (s *Synthesizer) targetEntry(entries []jdk.RuntimeEntry) (jdk.RuntimeEntry, bool) {
	if idx := indexByName(entries, s.preferredName); idx >= 0 {
		return entries[idx], true
	}
	for _, e := range entries {
		if e.Default {
			return e, true
		}
	}
	if len(entries) > 0 {
		return entries[0], true
	}
	return jdk.RuntimeEntry{}, false
}

// applyPrimaryHome keeps the primary language-server path pinned to the
// target runtime. A stale language server is a hard functional failure, not a
// preference, so this key is always overwritten.
func (s *Synthesizer) applyPrimaryHome(target jdk.RuntimeEntry) int {
	if s.store.UpdateIfChanged(config.KeyJavaHome, target.Path) {
		common.ConfigLogger.Info("set %s = %s", config.KeyJavaHome, target.Path)
		return 1
	}
	return 0
}

// applySecondaryHomes manages optional extensions' language-server homes:
// untouched unless the extension is present, preserved while valid and recent
// enough, replaced with the default otherwise.
func (s *Synthesizer) applySecondaryHomes(target jdk.RuntimeEntry) int {
	writes := 0
	for _, sk := range secondaryKeys {
		if !s.caps.Has(sk.capability) {
			continue
		}
		if existing, ok := s.store.GetDefinition(sk.key); ok {
			if path, ok := existing.(string); ok && s.meetsMinimum(path, sk.minMajor) {
				continue
			}
		}
		if s.store.UpdateIfChanged(sk.key, target.Path) {
			common.ConfigLogger.Info("set %s = %s", sk.key, target.Path)
			writes++
		}
	}
	return writes
}

func (s *Synthesizer) meetsMinimum(path string, minMajor int) bool {
	version, ok := s.probe.Version(path)
	if !ok {
		return false
	}
	return jdk.MajorOf(version) >= minMajor
}

// applyGradleHome sets the build-tool daemon home if unset; a broken existing
// value is repaired in place and only falls back to the default when
// un-fixable.
func (s *Synthesizer) applyGradleHome(target jdk.RuntimeEntry) int {
	existing, ok := s.store.GetDefinition(config.KeyGradleJavaHome)
	if !ok {
		if s.store.UpdateIfChanged(config.KeyGradleJavaHome, target.Path) {
			return 1
		}
		return 0
	}

	path, isString := existing.(string)
	if isString {
		if fixed, ok := s.probe.FixPath(path); ok {
			if fixed == path {
				return 0
			}
			if s.store.UpdateIfChanged(config.KeyGradleJavaHome, fixed) {
				common.ConfigLogger.Info("fixed %s: %s -> %s", config.KeyGradleJavaHome, path, fixed)
				return 1
			}
			return 0
		}
	}

	if s.store.UpdateIfChanged(config.KeyGradleJavaHome, target.Path) {
		common.ConfigLogger.Info("reset un-fixable %s to %s", config.KeyGradleJavaHome, target.Path)
		return 1
	}
	return 0
}

// applyTerminalEnv merges the managed variables into the terminal environment
// block, leaving everything else in the block alone.
func (s *Synthesizer) applyTerminalEnv(target jdk.RuntimeEntry) int {
	merged := map[string]interface{}{}
	if existing, ok := s.store.GetDefinition(config.KeyTerminalEnvOSX); ok {
		if block, ok := settings.Canonicalize(existing).(map[string]interface{}); ok {
			merged = block
		}
	}

	merged["JAVA_HOME"] = target.Path
	merged["PATH"] = filepath.Join(target.Path, "bin") + ":${env:PATH}"

	if s.store.UpdateIfChanged(config.KeyTerminalEnvOSX, merged) {
		return 1
	}
	return 0
}

// applyTerminalProfiles rebuilds the managed per-runtime profile entries while
// preserving user-added profiles and any unrecognized fields inside managed
// ones (each managed profile starts from a clone of its previous definition).
func (s *Synthesizer) applyTerminalProfiles(entries []jdk.RuntimeEntry) int {
	previous := map[string]interface{}{}
	if existing, ok := s.store.GetDefinition(config.KeyTerminalProfOSX); ok {
		if profiles, ok := settings.Canonicalize(existing).(map[string]interface{}); ok {
			previous = profiles
		}
	}

	next := map[string]interface{}{}
	for name, profile := range previous {
		if jdk.MajorFromName(name) > 0 {
			// Managed name: re-synthesized below, dropped if its runtime
			// vanished.
			continue
		}
		next[name] = settings.DeepClone(profile)
	}

	for _, e := range entries {
		profile := map[string]interface{}{}
		if prev, ok := previous[e.Name].(map[string]interface{}); ok {
			profile = settings.DeepClone(prev).(map[string]interface{})
		}
		profile["path"] = s.shell
		profile["env"] = map[string]interface{}{
			"JAVA_HOME": e.Path,
			"PATH":      filepath.Join(e.Path, "bin") + ":${env:PATH}",
		}
		profile["overrideName"] = true
		next[e.Name] = profile
	}

	if s.store.UpdateIfChanged(config.KeyTerminalProfOSX, next) {
		return 1
	}
	return 0
}

// removeDeprecated drops legacy keys unconditionally, regardless of value.
func (s *Synthesizer) removeDeprecated() int {
	writes := 0
	for _, key := range config.DeprecatedKeys {
		if s.store.UpdateIfChanged(key, nil) {
			common.ConfigLogger.Info("removed deprecated setting %s", key)
			writes++
		}
	}
	return writes
}

func indexByName(entries []jdk.RuntimeEntry, name string) int {
	for i := range entries {
		if entries[i].Name == name {
			return i
		}
	}
	return -1
}
