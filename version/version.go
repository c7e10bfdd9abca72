package version

// Version is set via ldflags on release builds.
var Version = "dev"

var FullVersion = Version
