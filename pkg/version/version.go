package version

// Build metadata, stamped at build time:
//
//	go build -ldflags "-X github.com/EATMove/handbook/pkg/version.Version=1.4.0 -X github.com/EATMove/handbook/pkg/version.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "dev"
	Commit  = "unknown"
)

// String renders the version for logs and --version output.
func String() string {
	return Version + " (" + Commit + ")"
}
