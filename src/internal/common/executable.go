package common

import (
	"os"
	"path/filepath"
	"runtime"
)

// PlatformExpand expands bare executable names into the candidate file names the
// current platform may use (javac -> javac.exe on windows).
func PlatformExpand(names []string) []string {
	out := make([]string, 0, len(names)*4)
	for _, n := range names {
		if runtime.GOOS == "windows" {
			ext := filepath.Ext(n)
			if ext == ".cmd" || ext == ".bat" || ext == ".exe" {
				out = append(out, n)
			} else {
				out = append(out, n, n+".exe", n+".cmd", n+".bat")
			}
		} else {
			out = append(out, n)
		}
	}
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(out))
	for _, v := range out {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	return uniq
}

// FindExecutable returns the first existing executable with one of the given
// names inside dir, or "" when none exists.
func FindExecutable(dir string, names ...string) string {
	for _, n := range PlatformExpand(names) {
		p := filepath.Join(dir, n)
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if runtime.GOOS == "windows" {
			return p
		}
		if info.Mode()&0111 != 0 {
			return p
		}
	}
	return ""
}
