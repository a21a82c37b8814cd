package scanner

import (
	"path/filepath"
)

// Strategy enumerates candidate JDK homes for one install convention. Each
// strategy is independent: adding a new package manager is a new catalogue
// entry, not new scan logic.
type Strategy struct {
	Name string
	// Globs returns glob patterns whose matches are candidate home
	// directories; the compiler is expected at <match>/bin/javac.
	Globs func(env Env) []string
	// Direct returns explicit candidate directories that may be imprecise
	// and are repaired through FixPath (environment variables mostly point
	// near a home, not always at it).
	Direct func(env Env) []string
}

// Catalogue returns the fixed set of scan strategies for env's OS.
func Catalogue(env Env) []Strategy {
	strategies := []Strategy{
		{
			Name: "env-vars",
			Direct: func(env Env) []string {
				var out []string
				for _, name := range []string{"JAVA_HOME", "JDK_HOME"} {
					if v := env.Getenv(name); v != "" {
						out = append(out, v)
					}
				}
				return out
			},
		},
		{
			Name: "sdkman",
			Globs: func(env Env) []string {
				root := env.Getenv("SDKMAN_DIR")
				if root == "" {
					root = filepath.Join(env.HomeDir(), ".sdkman")
				}
				return []string{filepath.Join(root, "candidates", "java", "*")}
			},
		},
		{
			Name: "asdf",
			Globs: func(env Env) []string {
				root := env.Getenv("ASDF_DATA_DIR")
				if root == "" {
					root = filepath.Join(env.HomeDir(), ".asdf")
				}
				return []string{filepath.Join(root, "installs", "java", "*")}
			},
		},
		{
			Name: "jabba",
			Globs: func(env Env) []string {
				return []string{filepath.Join(env.HomeDir(), ".jabba", "jdk", "*")}
			},
		},
		{
			Name: "gradle-toolchains",
			Globs: func(env Env) []string {
				return []string{filepath.Join(env.HomeDir(), ".gradle", "jdks", "*")}
			},
		},
		{
			Name: "intellij",
			Globs: func(env Env) []string {
				return []string{filepath.Join(env.HomeDir(), ".jdks", "*")}
			},
		},
	}

	switch env.GOOS() {
	case "linux":
		strategies = append(strategies, Strategy{
			Name: "system-linux",
			Globs: func(env Env) []string {
				return []string{
					"/usr/lib/jvm/*",
					"/usr/java/*",
					"/opt/java/*",
				}
			},
		})
	case "darwin":
		strategies = append(strategies, Strategy{
			Name: "system-darwin",
			Globs: func(env Env) []string {
				return []string{
					"/Library/Java/JavaVirtualMachines/*/Contents/Home",
					filepath.Join(env.HomeDir(), "Library", "Java", "JavaVirtualMachines", "*", "Contents", "Home"),
				}
			},
		}, Strategy{
			Name: "homebrew",
			Globs: func(env Env) []string {
				return []string{
					"/opt/homebrew/opt/openjdk*/libexec/openjdk.jdk/Contents/Home",
					"/usr/local/opt/openjdk*/libexec/openjdk.jdk/Contents/Home",
				}
			},
		})
	case "windows":
		strategies = append(strategies, Strategy{
			Name: "system-windows",
			Globs: func(env Env) []string {
				var out []string
				for _, root := range []string{env.Getenv("ProgramFiles"), env.Getenv("ProgramFiles(x86)")} {
					if root == "" {
						continue
					}
					out = append(out,
						filepath.Join(root, "Java", "*"),
						filepath.Join(root, "Eclipse Adoptium", "*"),
						filepath.Join(root, "Microsoft", "jdk*"),
						filepath.Join(root, "Amazon Corretto", "*"),
					)
				}
				return out
			},
		})
	}

	return strategies
}
