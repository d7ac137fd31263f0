/*
Package constants provides common values used across all batchresolve packages. Usage is to call the
global Get() function which returns the Constants by value ensuring that any modifications made
(accidental or otherwise) will not affect other modules when they call Get().

Typically usage:

    consts := constants.Get()
    fmt.Println("I am", consts.ProgramName, "based on", consts.PackageURL)

The primary reason for making this a constructed struct rather than the more typical const () block
is so that it can be fed directly into templating packages for printing usage messages.
*/
package constants

// Constants contains the system-wide constants
type Constants struct {
	ProgramName string
	Version     string
	PackageName string
	PackageURL  string

	DNSDefaultPort  string // Appended to a dns= server address with no explicit port
	DNSUDPTransport string

	DefaultQPS            uint32
	DefaultTimeoutRetries uint32

	ConfigFileName  string   // Basename searched for when --config is not supplied
	ConfigSearchDir []string // "" entry means $HOME/.config

	StatusInterval string // Interval between periodic status reports, as a duration string
}

var readOnlyConstants *Constants

// createReadOnlyConstants creates a read-only copy of the Constants which is copied whenever a
// caller asks for the constants set. The main reason for returning a struct is so that callers can
// inspect and/or use packages that introspect - particularly */template packages.
func createReadOnlyConstants() {
	readOnlyConstants = &Constants{
		ProgramName: "batchresolve",
		Version:     "v0.1.0",
		PackageName: "Batch DNS Resolver",
		PackageURL:  "https://github.com/markdingo/batchresolve",

		DNSDefaultPort:  "53",
		DNSUDPTransport: "udp",

		DefaultQPS:            5000,
		DefaultTimeoutRetries: 10,

		ConfigFileName:  "batch_resolve.toml",
		ConfigSearchDir: []string{".", "", "/etc"},

		StatusInterval: "10s",
	}
}

func init() {
	createReadOnlyConstants()
}

// Get returns a copy of the Constant struct. Return by value so internal values cannot be
// inadvertently changed by callers.
func Get() Constants {
	return *readOnlyConstants
}
