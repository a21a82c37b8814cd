package cli

import (
	"github.com/spf13/cobra"

	"jdk-autoconf/src/internal/common"
	versionpkg "jdk-autoconf/src/internal/version"
)

// CLI Constants
const (
	CmdSync    = "sync"
	CmdScan    = "scan"
	CmdStatus  = "status"
	CmdInstall = "install"
	CmdConfig  = "config"
	CmdVersion = "version"
	FlagConfig = "config"
	FlagNoDL   = "no-download"
	FlagShell  = "shell"
	FlagForce  = "force"
)

// CLI Variables
var (
	settingsPath string
	noDownload   bool
	shell        string
	force        bool
	verbose      bool
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "jdk-autoconf",
	Short: "jdk-autoconf - automatic JDK discovery and configuration",
	Long: `jdk-autoconf discovers the JDKs and build tools installed on this machine,
downloads missing long-term-support versions, and keeps the derived tooling
configuration (runtime list, language-server homes, terminal profiles)
consistent with what is actually installed.

QUICK START:
  jdk-autoconf sync                        # Discover, reconcile and configure
  jdk-autoconf scan                        # Show detected JDK installations

CORE FEATURES:
  - Scans OS install locations and package-manager conventions (SDKMAN,
    asdf, jabba, Homebrew, Gradle toolchains, IntelliJ)
  - Keeps the persisted runtime list valid without clobbering user edits
  - Downloads missing LTS JDKs and the Gradle distribution on demand
  - Derives language-server homes and terminal profiles per runtime
  - Re-running with no environment change issues zero writes`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			for _, l := range []*common.SafeLogger{common.CLILogger, common.ScanLogger, common.AcquireLogger, common.ConfigLogger} {
				l.SetLevel(common.LogDebug)
			}
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   CmdVersion,
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		common.CLILogger.Info("%s", versionpkg.GetFullVersionInfo())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, FlagConfig, "", "settings file path (default ~/.jdk-autoconf/settings.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
