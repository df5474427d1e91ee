package app

// Build information populated via -ldflags by the mage Build target.
var (
	// BuildVersion is the semantic version of the built binary.
	BuildVersion = "0.0.0-dev"
	// BuildCommit is the VCS commit SHA associated with the build.
	BuildCommit = "unknown"
	// BuildDate is the ISO-8601 timestamp of the build.
	BuildDate = "unknown"
)

// VersionString is the one-line form printed by `memogen version`.
func VersionString() string {
	return "memogen " + BuildVersion + " (" + BuildCommit + ", " + BuildDate + ")"
}
