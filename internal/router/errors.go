package router

import (
	"errors"
	"fmt"

	"github.com/lydakis/itermctl/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// panicError carries a recovered handler panic.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("tool handler panicked: %v", e.value)
}

// classify maps a handler failure to its wire error. Invalid parameters
// become -32602, a panic -32603, and everything else -32000 with data.kind.
func classify(err error) *RPCError {
	var pe *panicError
	switch {
	case errors.As(err, &pe):
		return &RPCError{Code: CodeInternalError, Message: "internal error"}
	case errors.Is(err, mcp.ErrInvalidParams):
		return &RPCError{Code: CodeInvalidParams, Message: err.Error()}
	default:
		return &RPCError{
			Code:    CodeToolError,
			Message: err.Error(),
			Data:    ErrorData{Kind: string(tools.KindOf(err))},
		}
	}
}
