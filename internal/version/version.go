// Package version carries build metadata set with -ldflags.
package version

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/mj1618/element-inspector/internal/version.Version=v1.2.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Info is the build metadata in printable form.
type Info struct {
	Version   string `yaml:"version"    json:"version"`
	Commit    string `yaml:"commit"     json:"commit"`
	BuildDate string `yaml:"build_date" json:"build_date"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{Version: Version, Commit: Commit, BuildDate: BuildDate}
}
