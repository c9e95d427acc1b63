// Package logging provides a minimal logging interface and adapters for
// AccountMesh.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error, Fatal) that the runner, assistant and research aggregator use
// for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelInfo, Format: "json", Output: os.Stdout})
//	mesh := accountmesh.New(llm, func(o *accountmesh.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
