package main

import "runtime/debug"

// version is set at build time:
//
//	go build -ldflags="-X main.version=$(git describe --tags --always --dirty)" ./cmd/feedreel
var version = "dev"

func currentVersion() string {
	info, _ := debug.ReadBuildInfo()
	return resolveVersion(version, info)
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(v string, info *debug.BuildInfo) string {
	if v != "dev" {
		return v
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}
