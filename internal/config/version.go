package config

// Version is the socialgraph binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/socialgraph/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
