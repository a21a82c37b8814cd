package workflow

import (
	"context"
	"fmt"

	"jdk-autoconf/src/config"
	"jdk-autoconf/src/internal/acquire"
	"jdk-autoconf/src/internal/common"
	"jdk-autoconf/src/internal/jdk"
	"jdk-autoconf/src/internal/platform"
	"jdk-autoconf/src/internal/reconcile"
	"jdk-autoconf/src/internal/scanner"
	"jdk-autoconf/src/internal/settings"
	"jdk-autoconf/src/internal/synth"
)

// Options configures one workflow run.
type Options struct {
	SettingsPath string
	// SkipDownload disables the acquisition phase; scan, reconcile and
	// synthesis still run.
	SkipDownload bool
	// Shell overrides the shell used in managed terminal profiles.
	Shell string
	// Force reinstalls managed tools even when the version marker matches.
	Force bool
}

// Engine is one wired pipeline: scan -> reconcile -> synthesize, with
// acquisition running concurrently with the scan and feeding back into a
// second reconcile pass before synthesis.
type Engine struct {
	store       *settings.FileStore
	probe       *jdk.Probe
	scanner     *scanner.Scanner
	reconciler  *reconcile.Reconciler
	coordinator *acquire.Coordinator
	synthesizer *synth.Synthesizer
	allow       scanner.AllowListProvider
	opts        Options
}

// NewEngine wires the host implementations of every collaborator.
func NewEngine(opts Options) (*Engine, error) {
	if opts.SettingsPath == "" {
		opts.SettingsPath = config.DefaultSettingsPath()
	}

	store, err := settings.NewFileStore(opts.SettingsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}

	probe := jdk.NewProbe()
	env := scanner.HostEnv{}
	allow := scanner.StaticAllowList(nil)
	host := platform.NewHostInfo()
	catalog := platform.NewTemurinCatalog(host)

	return &Engine{
		store:       store,
		probe:       probe,
		scanner:     scanner.New(probe, env, allow, platform.LTSVersions),
		reconciler:  reconcile.New(store, probe),
		coordinator: acquire.NewCoordinator(probe, catalog, acquire.NewExecDownloader()),
		synthesizer: synth.New(store, probe, synth.HostCapabilities{}, env.GOOS(), opts.Shell),
		allow:       allow,
		opts:        opts,
	}, nil
}

// Store exposes the underlying settings store (status/config commands).
func (e *Engine) Store() *settings.FileStore {
	return e.store
}

// Probe exposes the shared path probe.
func (e *Engine) Probe() *jdk.Probe {
	return e.probe
}

// Scan runs discovery only.
func (e *Engine) Scan(ctx context.Context) (map[int]jdk.DetectedJdk, []error) {
	return e.scanner.Scan(ctx)
}

// acquisitionResult carries the concurrent acquisition phase's outcome.
type acquisitionResult struct {
	detections []jdk.DetectedJdk
	errs       []error
}

// Run executes the full workflow. Once started it runs to completion; scan
// and acquisition failures degrade the result but never abort it. The run is
// idempotent: with no environmental change, a second run issues zero writes.
func (e *Engine) Run(ctx context.Context) error {
	allowNames := e.allow.GetSupportedVersionNames()

	var acquireCh chan acquisitionResult
	if !e.opts.SkipDownload {
		stored, _ := e.store.GetDefinition(config.KeyRuntimes)
		entries := jdk.DecodeEntries(stored)

		acquireCh = make(chan acquisitionResult, 1)
		go func() {
			detections, errs := e.coordinator.EnsureAll(ctx, platform.LTSVersions, entries)
			acquireCh <- acquisitionResult{detections: detections, errs: errs}
		}()
	}

	detections, scanErrs := e.scanner.Scan(ctx)
	for _, err := range scanErrs {
		common.ScanLogger.Warn("scan degraded: %v", err)
	}

	result := e.reconciler.Reconcile(detections, allowNames)

	if acquireCh != nil {
		acq := <-acquireCh
		for _, err := range acq.errs {
			common.AcquireLogger.Error("acquisition failed: %v", err)
		}
		if len(acq.detections) > 0 {
			byMajor := make(map[int]jdk.DetectedJdk, len(acq.detections))
			for _, d := range acq.detections {
				byMajor[d.Major] = d
			}
			result = e.reconciler.Reconcile(byMajor, allowNames)
		}
	}

	writes := e.synthesizer.Apply(result.Entries)
	e.store.Flush()

	common.CLILogger.Info("sync complete: %d runtimes, %d setting writes", len(result.Entries), writes)
	return nil
}

// Install forces acquisition for the given majors and reconciles the results.
func (e *Engine) Install(ctx context.Context, majors []int) error {
	stored, _ := e.store.GetDefinition(config.KeyRuntimes)
	entries := jdk.DecodeEntries(stored)

	if e.opts.Force {
		for _, major := range majors {
			acquire.ClearMarker(common.RuntimeInstallRoot(major))
		}
	}

	detections, errs := e.coordinator.EnsureAll(ctx, majors, entries)
	if len(detections) > 0 {
		byMajor := make(map[int]jdk.DetectedJdk, len(detections))
		for _, d := range detections {
			byMajor[d.Major] = d
		}
		result := e.reconciler.Reconcile(byMajor, e.allow.GetSupportedVersionNames())
		e.synthesizer.Apply(result.Entries)
	}
	e.store.Flush()

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d acquisitions failed", len(errs), len(majors))
	}
	return nil
}

// InstallGradle forces acquisition of the Gradle distribution.
func (e *Engine) InstallGradle(ctx context.Context) error {
	if e.opts.Force {
		acquire.ClearMarker(common.GradleInstallRoot())
	}
	home, err := e.coordinator.EnsureGradle(ctx)
	if err != nil {
		return err
	}
	if home == "" {
		return fmt.Errorf("gradle installation did not validate")
	}
	return nil
}
