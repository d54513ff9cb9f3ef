// Package version holds the release string, overridable at build time with
// -ldflags "-X taranis/internal/version.Version=...".
package version

var Version = "2.1.0"
