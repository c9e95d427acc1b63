// Package runner implements the conversational turn loop for AccountMesh.
//
// The Runner bridges the public façade and the assistant: it resolves the
// session for an incoming user message, appends and persists the user event,
// drives the assistant to completion, and persists every event the assistant
// produced (including tool-state deltas applied to the session).
//
// # Responsibilities (abridged)
//   - Session resolution and history persistence
//   - Invocation lifecycle (one invocation ID per user turn)
//   - Extracting the final assistant reply from the produced events
package runner
