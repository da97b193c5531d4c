package main

import "runtime/debug"

// Version is the version of the rtyaml CLI, set at build time via
// -ldflags "-X main.version=x.y.z" or read from module info.
var Version = getVersion()

var version string

func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}
