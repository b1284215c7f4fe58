package types

// Version is the plonk release version, overridden at link time with -ldflags.
var Version = "dev"
