// ABOUTME: Version information for voicefx
// ABOUTME: Product identity printed at startup and in the bench report
package version

const (
	// Version is the release version
	Version = "0.3.0"

	// Product is the program name
	Product = "voicefx"

	// Manufacturer identifies the publisher
	Manufacturer = "Resonate Protocol"
)
