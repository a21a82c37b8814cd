package synth

import (
	"os"
	"path/filepath"

	"jdk-autoconf/src/internal/common"
)

// Capability identifiers for optional, independently-installed extensions.
const (
	CapSpringTools = "spring-tools"
	CapApex        = "salesforce-apex"
)

// Capabilities answers whether an optional extension is present on the host.
// Injected so the synthesizer is substitutable in tests.
type Capabilities interface {
	Has(id string) bool
}

// CapabilityFunc adapts a plain function to Capabilities.
type CapabilityFunc func(id string) bool

func (f CapabilityFunc) Has(id string) bool {
	return f(id)
}

// HostCapabilities detects extensions through their well-known config
// directories under the user's home.
type HostCapabilities struct{}

func (HostCapabilities) Has(id string) bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	switch id {
	case CapSpringTools:
		return common.DirExists(filepath.Join(home, ".spring-tools"))
	case CapApex:
		return common.DirExists(filepath.Join(home, ".sfdx"))
	default:
		return false
	}
}
