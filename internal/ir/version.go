package ir

// Version constants for the cell encoding and the tool.
const (
	// ProgramVersion is the version of the cell encoding hashed into
	// fingerprints.
	ProgramVersion = "1"

	// Version is the sieve release.
	Version = "0.1.0"
)
