// ABOUTME: Build identification constants
// ABOUTME: Product name and version reported by the CLI
package version

const (
	// Product is the human-readable product name.
	Product = "Voxpipe"

	// Version is the semantic version of this build.
	Version = "0.3.0"
)
