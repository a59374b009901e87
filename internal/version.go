package internal

// Set at build time with -ldflags "-X github.com/evcs-platform/evcs-smoke/internal.Version=..."
var (
	Version = "dev"
	Date    = ""
)
