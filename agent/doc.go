// Package agent implements the tool-calling assistant: a single LLM agent
// that resolves its instruction, drives the model, executes requested tool
// calls (in parallel when the model batches them) and loops until the model
// produces a final text turn.
package agent
