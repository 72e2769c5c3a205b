package main

import (
	"github.com/marcus/partman/cmd"
	"github.com/marcus/partman/internal/version"
)

// Version may be set at build time via -ldflags "-X main.Version=...".
// If left as "dev", we will attempt to derive a version from Go build info.
var Version = "dev"

func main() {
	cmd.SetVersion(version.Current(Version))
	cmd.Execute()
}
