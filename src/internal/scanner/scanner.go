package scanner

import (
	"context"
	"fmt"
	"path/filepath"

	"jdk-autoconf/src/internal/common"
	"jdk-autoconf/src/internal/jdk"
)

// AllowListProvider supplies the runtime names the downstream language-server
// tooling supports. An empty result means unrestricted discovery and the
// scanner falls back to the configured acquisition targets.
type AllowListProvider interface {
	GetSupportedVersionNames() []string
}

// StaticAllowList is a fixed allow-list.
type StaticAllowList []string

func (s StaticAllowList) GetSupportedVersionNames() []string {
	return s
}

// Scanner enumerates candidate directories across all strategies and produces
// the best detected installation per major version.
type Scanner struct {
	probe      *jdk.Probe
	env        Env
	allow      AllowListProvider
	targets    []int
	strategies []Strategy

	// managedHome resolves the managed install home per major; overridable
	// in tests.
	managedHome func(major int) string
}

// New creates a scanner over the full strategy catalogue for env's OS.
func New(probe *jdk.Probe, env Env, allow AllowListProvider, targets []int) *Scanner {
	return &Scanner{
		probe:       probe,
		env:         env,
		allow:       allow,
		targets:     targets,
		strategies:  Catalogue(env),
		managedHome: common.RuntimeInstallHome,
	}
}

// NewWithStrategies creates a scanner with an explicit strategy set (tests).
func NewWithStrategies(probe *jdk.Probe, env Env, allow AllowListProvider, targets []int, strategies []Strategy) *Scanner {
	return &Scanner{
		probe:       probe,
		env:         env,
		allow:       allow,
		targets:     targets,
		strategies:  strategies,
		managedHome: common.RuntimeInstallHome,
	}
}

// scanResult carries one strategy's outcome through the fan-out channel.
type scanResult struct {
	strategy   string
	detections []jdk.DetectedJdk
	err        error
}

// Scan runs every strategy concurrently and merges the results into a
// best-per-major map. One strategy's failure never aborts the others; failures
// are collected and returned alongside the successes.
func (s *Scanner) Scan(ctx context.Context) (map[int]jdk.DetectedJdk, []error) {
	resultCh := make(chan scanResult, len(s.strategies))

	for _, strategy := range s.strategies {
		go func(st Strategy) {
			detections, err := s.runStrategy(ctx, st)
			resultCh <- scanResult{strategy: st.Name, detections: detections, err: err}
		}(strategy)
	}

	best := make(map[int]jdk.DetectedJdk)
	var errs []error
	for range s.strategies {
		res := <-resultCh
		if res.err != nil {
			common.ScanLogger.Warn("strategy %s failed: %v", res.strategy, res.err)
			errs = append(errs, fmt.Errorf("strategy %s: %w", res.strategy, res.err))
			continue
		}
		for _, d := range res.detections {
			mergeDetection(best, d)
		}
	}

	allowed := s.allowedMajors()
	for major := range best {
		if !allowed[major] {
			delete(best, major)
		}
	}

	// Auto-downloaded installs are a fallback source only: they are
	// synthesized as detections solely for majors with no user install.
	for major := range allowed {
		if _, ok := best[major]; ok {
			continue
		}
		home := s.managedHome(major)
		if version, ok := s.probe.Version(home); ok {
			best[major] = jdk.DetectedJdk{Major: major, FullVersion: version, Home: home}
		}
	}

	return best, errs
}

// runStrategy expands one strategy's candidates and probes each hit.
func (s *Scanner) runStrategy(ctx context.Context, st Strategy) ([]jdk.DetectedJdk, error) {
	var detections []jdk.DetectedJdk

	if st.Globs != nil {
		for _, pattern := range st.Globs(s.env) {
			if err := ctx.Err(); err != nil {
				return detections, err
			}
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return detections, fmt.Errorf("bad glob pattern %s: %w", pattern, err)
			}
			for _, home := range matches {
				if d, ok := s.detect(home); ok {
					detections = append(detections, d)
				}
			}
		}
	}

	if st.Direct != nil {
		for _, candidate := range st.Direct(s.env) {
			home, ok := s.probe.FixPath(candidate)
			if !ok {
				continue
			}
			if d, ok := s.detect(home); ok {
				detections = append(detections, d)
			}
		}
	}

	return detections, nil
}

func (s *Scanner) detect(home string) (jdk.DetectedJdk, bool) {
	version, ok := s.probe.Version(home)
	if !ok {
		return jdk.DetectedJdk{}, false
	}
	major := jdk.MajorOf(version)
	if major == 0 {
		return jdk.DetectedJdk{}, false
	}
	return jdk.DetectedJdk{Major: major, FullVersion: version, Home: home}, true
}

// mergeDetection keeps the newest full version per major; a prior hit is
// replaced only by a strictly newer one.
func mergeDetection(best map[int]jdk.DetectedJdk, d jdk.DetectedJdk) {
	existing, ok := best[d.Major]
	if !ok || jdk.IsNewer(d.FullVersion, existing.FullVersion) {
		best[d.Major] = d
	}
}

// allowedMajors resolves the allow-list to a major-version set, falling back
// to the acquisition targets when the list cannot be obtained.
func (s *Scanner) allowedMajors() map[int]bool {
	allowed := make(map[int]bool)
	if s.allow != nil {
		for _, name := range s.allow.GetSupportedVersionNames() {
			if major := jdk.MajorFromName(name); major > 0 {
				allowed[major] = true
			}
		}
	}
	if len(allowed) == 0 {
		for _, major := range s.targets {
			allowed[major] = true
		}
	}
	return allowed
}
