package platform

import (
	"fmt"
	"runtime"
)

// LTSVersions is the ordered set of long-term-support majors the engine tracks
// as acquisition and default targets.
var LTSVersions = []int{8, 11, 17, 21}

// PreferredLTS is the latest supported long-term-support major; it is the
// default-runtime candidate and the primary language-server runtime.
const PreferredLTS = 21

// Info describes the host platform.
type Info interface {
	GetPlatform() string
	GetArch() string
	GetPlatformString() string
	IsSupported() bool
}

// HostInfo implements Info for the current process.
type HostInfo struct{}

// NewHostInfo creates a new platform info instance
func NewHostInfo() *HostInfo {
	return &HostInfo{}
}

// GetPlatform returns current platform (linux, darwin, windows)
func (p *HostInfo) GetPlatform() string {
	return runtime.GOOS
}

// GetArch returns current architecture (amd64, arm64)
func (p *HostInfo) GetArch() string {
	return runtime.GOARCH
}

// GetPlatformString returns platform string for downloads
func (p *HostInfo) GetPlatformString() string {
	return fmt.Sprintf("%s-%s", p.GetPlatform(), p.GetArch())
}

// IsSupported checks if current platform is supported
func (p *HostInfo) IsSupported() bool {
	supportedPlatforms := map[string][]string{
		"linux":   {"amd64", "arm64"},
		"darwin":  {"amd64", "arm64"},
		"windows": {"amd64"},
	}

	if supportedArchs, exists := supportedPlatforms[p.GetPlatform()]; exists {
		for _, supportedArch := range supportedArchs {
			if p.GetArch() == supportedArch {
				return true
			}
		}
	}

	return false
}
