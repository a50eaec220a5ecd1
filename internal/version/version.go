package version

import "runtime/debug"

// Version is set at build time with -ldflags "-X github.com/mbradley/nowplayin/internal/version.Version=...".
var Version = "dev"

// String returns Version, falling back to the module version recorded by go install.
func String() string {
	if Version != "dev" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return Version
	}
	return info.Main.Version
}
