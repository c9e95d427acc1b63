// Package core provides the foundational domain types used across
// accountmesh. It defines:
//
//   - Content / Part (role-based conversational content: text, function
//     calls, function responses)
//   - Events (immutable records of a conversational turn)
//   - Sessions (stateful conversational containers with event history)
//   - ToolContext (scoped execution surface handed to tools)
//   - The SessionStore persistence contract
//
// The package intentionally keeps implementation concerns (storage backends,
// model adapters, the assistant run loop) out of scope, exposing small types
// so higher layers stay decoupled.
package core
