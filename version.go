package verstore

import (
	"runtime/debug"
	"sync"
)

var (
	buildOnce    sync.Once
	buildVersion string
)

// BuildVersion is the default Options.Version: the main module version from the
// binary's build info, or "devel" for untagged builds. Read once per process.
func BuildVersion() string {
	buildOnce.Do(func() {
		buildVersion = "devel"
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			buildVersion = bi.Main.Version
		}
	})
	return buildVersion
}
