// Package tools defines the tool execution contract and the closed
// registry that dispatches model-requested tool calls to handlers.
//
// The registry is a fixed, explicitly constructed mapping from tool name to
// handler plus declared argument schema. Dispatch never fails the enclosing
// conversation turn: unknown names, argument decode or validation failures,
// handler errors, and handler panics all degrade to an error-shaped result
// object that is fed back to the model.
package tools
