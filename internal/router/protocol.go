// Package router implements the newline-delimited JSON request/response
// protocol: framing, parsing, validation, dispatch to the tool registry,
// and response encoding.
package router

import "github.com/mark3labs/mcp-go/mcp"

// Error codes. The JSON-RPC codes come from mcp-go; CodeToolError is the
// server-defined code for failures raised inside a tool handler.
const (
	CodeParseError     = mcp.PARSE_ERROR
	CodeInvalidRequest = mcp.INVALID_REQUEST
	CodeToolNotFound   = mcp.METHOD_NOT_FOUND
	CodeInvalidParams  = mcp.INVALID_PARAMS
	CodeInternalError  = mcp.INTERNAL_ERROR
	CodeToolError      = -32000
)

// Response type discriminators.
const (
	TypeResponse = "response"
	TypeError    = "error"
)

// Request is one protocol line.
type Request struct {
	ID        string         `json:"id"`
	Function  string         `json:"function"`
	Arguments map[string]any `json:"arguments"`
}

// RPCError is the error member of an error response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorData is RPCError.Data for tool failures.
type ErrorData struct {
	Kind string `json:"kind"`
}

// SuccessResponse answers a request whose tool returned normally.
type SuccessResponse struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Result any       `json:"result"`
	Error  *RPCError `json:"error"`
}

// ErrorResponse answers a request that failed anywhere in the pipeline.
// ID is null when the request id could not be recovered.
type ErrorResponse struct {
	ID    *string   `json:"id"`
	Type  string    `json:"type"`
	Error *RPCError `json:"error"`
}
