// Package ek9launch holds build metadata shared by the ek9 launcher binaries.
package ek9launch

// Version is set at build time via ldflags.
var Version = "dev"
