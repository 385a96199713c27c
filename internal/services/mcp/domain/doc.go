// Package domain translates MCP tool calls into talent calculator sessions.
//
// Every call is stateless: the share path in the input is decoded into a
// fresh session, the requested work runs against it, and the canonical path
// in the output carries the result to the next call.
package domain
