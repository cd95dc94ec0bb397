// Package buildinfo carries version stamps set with -ldflags:
//
//	go build -ldflags "-X lightcone/internal/buildinfo.Version=v1.2.0"
package buildinfo

import "fmt"

// Name is the program name used in the window title and -version output.
const Name = "lightcone"

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for the title bar and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Title is the plot window title.
func Title() string {
	return Name + " " + Short()
}

// String is the -version line.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", Name, Version, Commit, Date)
}
