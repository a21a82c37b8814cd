package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jdk-autoconf/src/config"
	"jdk-autoconf/src/internal/common"
	"jdk-autoconf/src/internal/jdk"
	"jdk-autoconf/src/internal/platform"
	"jdk-autoconf/src/internal/workflow"
)

// downloadTimeout bounds one full sync or install run, downloads included.
const downloadTimeout = 30 * time.Minute

var syncCmd = &cobra.Command{
	Use:   CmdSync,
	Short: "Discover JDKs, reconcile the runtime list and rewrite derived settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		ctx, cancel := common.CreateContext(downloadTimeout)
		defer cancel()
		return engine.Run(ctx)
	},
}

var scanCmd = &cobra.Command{
	Use:   CmdScan,
	Short: "Show JDK installations detected on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		ctx, cancel := common.CreateContextWithDefault()
		defer cancel()

		detections, errs := engine.Scan(ctx)
		for _, scanErr := range errs {
			common.ScanLogger.Warn("%v", scanErr)
		}

		if len(detections) == 0 {
			common.CLILogger.Info("No JDK installations detected")
			return nil
		}

		majors := make([]int, 0, len(detections))
		for major := range detections {
			majors = append(majors, major)
		}
		sort.Ints(majors)

		common.CLILogger.Info("Detected JDK installations:")
		for _, major := range majors {
			d := detections[major]
			common.CLILogger.Info("  %-12s %-10s %s", jdk.NameForMajor(major), d.FullVersion, d.Home)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   CmdStatus,
	Short: "Show the configured runtime list and its validity",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		stored, _ := engine.Store().GetDefinition(config.KeyRuntimes)
		entries := jdk.DecodeEntries(stored)
		if len(entries) == 0 {
			common.CLILogger.Info("No runtimes configured; run 'jdk-autoconf sync'")
			return nil
		}

		common.CLILogger.Info("Configured runtimes:")
		for _, e := range entries {
			marker := " "
			if e.Default {
				marker = "*"
			}
			state := "invalid"
			if engine.Probe().IsValidHome(e.Path) {
				state = "ok"
			}
			origin := "user"
			if common.IsManagedPath(e.Path) {
				origin = "managed"
			}
			common.CLILogger.Info("%s %-12s [%-7s] (%s) %s", marker, e.Name, state, origin, e.Path)
		}
		return nil
	},
}

var installCmd = &cobra.Command{
	Use:   CmdInstall + " [major|gradle]...",
	Short: "Download and install JDK majors or the Gradle distribution",
	Long: `Download missing tools into the managed storage root.

Without arguments, all tracked LTS majors are ensured. A valid user install
for a major is never replaced.

Examples:
  jdk-autoconf install             # Ensure all LTS JDKs
  jdk-autoconf install 21          # Ensure JDK 21
  jdk-autoconf install gradle      # Ensure the Gradle distribution`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		ctx, cancel := common.CreateContext(downloadTimeout)
		defer cancel()

		var majors []int
		gradle := false
		for _, arg := range args {
			if strings.EqualFold(arg, "gradle") {
				gradle = true
				continue
			}
			major, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("not a JDK major version: %q", arg)
			}
			majors = append(majors, major)
		}
		if len(majors) == 0 && !gradle {
			majors = platform.LTSVersions
		}

		if len(majors) > 0 {
			if err := engine.Install(ctx, majors); err != nil {
				return err
			}
		}
		if gradle {
			if err := engine.InstallGradle(ctx); err != nil {
				return err
			}
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   CmdConfig,
	Short: "Show the settings file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveSettingsPath()
		if err != nil {
			return err
		}
		state := "present"
		if !common.FileExists(path) {
			state = "not created yet; run 'jdk-autoconf sync'"
		}
		common.CLILogger.Info("Settings file: %s (%s)", path, state)
		return nil
	},
}

// resolveSettingsPath applies the --config override, expanding a leading ~.
func resolveSettingsPath() (string, error) {
	if settingsPath == "" {
		return config.DefaultSettingsPath(), nil
	}
	return common.ExpandPath(settingsPath)
}

func newEngine() (*workflow.Engine, error) {
	path, err := resolveSettingsPath()
	if err != nil {
		return nil, err
	}
	return workflow.NewEngine(workflow.Options{
		SettingsPath: path,
		SkipDownload: noDownload,
		Shell:        shell,
		Force:        force,
	})
}

func init() {
	syncCmd.Flags().BoolVar(&noDownload, FlagNoDL, false, "skip downloading missing JDKs")
	syncCmd.Flags().StringVar(&shell, FlagShell, "", "shell used in managed terminal profiles")
	installCmd.Flags().BoolVar(&force, FlagForce, false, "reinstall even when the recorded version matches")
}
