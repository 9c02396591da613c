// Package tally holds build metadata shared by the tally binary.
package tally

// Version is the tally release version.
const Version = "0.1.0"

// ModulePath is the Go module path of tally.
const ModulePath = "github.com/mesh-intelligence/tally"
