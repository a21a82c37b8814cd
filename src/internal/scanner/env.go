package scanner

import (
	"os"
	"runtime"
)

// Env provides read-only access to the process environment. Injectable so
// scan strategies are testable against a synthetic machine.
type Env interface {
	Getenv(name string) string
	HomeDir() string
	GOOS() string
}

// HostEnv implements Env for the current process.
type HostEnv struct{}

func (HostEnv) Getenv(name string) string {
	return os.Getenv(name)
}

func (HostEnv) HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func (HostEnv) GOOS() string {
	return runtime.GOOS
}
