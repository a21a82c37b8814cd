package jdk

import (
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"jdk-autoconf/src/internal/common"
)

// releaseFile is the metadata file every modern JDK ships in its home directory.
const releaseFile = "release"

// probeCacheSize bounds the number of cached probe results; scan strategies
// overlap heavily and frequently re-probe the same homes.
const probeCacheSize = 256

type probeResult struct {
	valid   bool
	version string
}

// Probe decides whether a directory is a usable JDK home and extracts its
// version metadata. All failures are answered with a negative result, never
// an error: an unreadable directory is simply not a JDK.
type Probe struct {
	cache *lru.Cache[string, probeResult]
}

// NewProbe creates a probe with a fresh result cache.
func NewProbe() *Probe {
	cache, err := lru.New[string, probeResult](probeCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &Probe{cache: cache}
}

// IsValidHome reports whether dir is a JDK home: a compiler executable under
// bin/ and extractable version metadata.
func (p *Probe) IsValidHome(dir string) bool {
	res := p.probe(dir)
	return res.valid
}

// Version returns the full version string recorded by the JDK at dir.
func (p *Probe) Version(dir string) (string, bool) {
	res := p.probe(dir)
	if !res.valid {
		return "", false
	}
	return res.version, true
}

func (p *Probe) probe(dir string) probeResult {
	if dir == "" {
		return probeResult{}
	}
	key := filepath.Clean(dir)
	if cached, ok := p.cache.Get(key); ok {
		return cached
	}

	res := probeResult{}
	if common.FindExecutable(filepath.Join(key, "bin"), "javac") != "" {
		if version, ok := readReleaseVersion(key); ok {
			res = probeResult{valid: true, version: version}
		}
	}
	p.cache.Add(key, res)
	return res
}

// Invalidate drops the cached result for dir. Callers that modify a
// directory (a fresh extraction, a removal) must invalidate before re-probing.
func (p *Probe) Invalidate(dir string) {
	p.cache.Remove(filepath.Clean(dir))
}

// readReleaseVersion parses JAVA_VERSION out of the release file. Fails closed
// on any read or parse problem.
func readReleaseVersion(home string) (string, bool) {
	data, err := common.SafeReadFile(filepath.Join(home, releaseFile))
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, "=")
		if !found || strings.TrimSpace(key) != "JAVA_VERSION" {
			continue
		}
		version := strings.Trim(strings.TrimSpace(value), `"`)
		if version == "" {
			return "", false
		}
		return version, true
	}
	return "", false
}

// fixPathNested is the set of platform-specific subpaths tried below each
// candidate directory (macOS app bundles nest the home under Contents/Home).
var fixPathNested = []string{"", "Contents/Home", "Home"}

// fixPathMaxUp bounds the upward walk. Unbounded search risks false positives
// deep in unrelated trees.
const fixPathMaxUp = 2

// FixPath repairs a possibly-imprecise JDK path: one pointing at bin/, one
// level too deep, or at the outer directory of a nested app bundle. It returns
// the first directory within the bounded search that is a valid home.
func (p *Probe) FixPath(dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	candidate := filepath.Clean(dir)
	for level := 0; level <= fixPathMaxUp; level++ {
		for _, nested := range fixPathNested {
			home := candidate
			if nested != "" {
				home = filepath.Join(candidate, filepath.FromSlash(nested))
			}
			if p.IsValidHome(home) {
				return home, true
			}
		}
		parent := filepath.Dir(candidate)
		if parent == candidate {
			break
		}
		candidate = parent
	}
	return "", false
}
