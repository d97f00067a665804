package domain

// Version is reported by the binaries and the health endpoint. Release builds
// override it with -ldflags "-X github.com/symptom-checker-server/internal/domain.Version=...".
var Version = "1.0.0"
