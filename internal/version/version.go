// Package version provides build and version information.
package version

// Version is the plugin version reported by --info and --version.
const Version = "1.0.0"
