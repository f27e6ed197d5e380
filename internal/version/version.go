// Package version holds the build version reported by every surface.
package version

// Version is the privascope release version.
const Version = "0.1.0"
