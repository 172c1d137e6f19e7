package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lydakis/itermctl/internal/logging"
	"github.com/lydakis/itermctl/internal/tools"
)

// Router dispatches protocol lines to a tool registry. It holds no
// per-connection state and is safe for concurrent use.
type Router struct {
	registry *tools.Registry
	logger   *slog.Logger
}

// New returns a router over registry.
func New(registry *tools.Registry, logger *slog.Logger) *Router {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Router{registry: registry, logger: logger}
}

// Handle processes one complete line (without its terminator) and returns
// the encoded response frame, newline included. It never returns nil.
func (r *Router) Handle(ctx context.Context, line []byte) []byte {
	return r.handle(ctx, line, r.logger)
}

func (r *Router) handle(ctx context.Context, line []byte, logger *slog.Logger) []byte {
	resp := r.dispatch(ctx, line, logger)
	frame, err := encodeFrame(resp)
	if err == nil {
		return frame
	}

	logger.Error("encoding response failed", "error", err)
	fallback := &ErrorResponse{
		ID:    responseID(resp),
		Type:  TypeError,
		Error: &RPCError{Code: CodeInternalError, Message: fmt.Sprintf("encoding response: %v", err)},
	}
	frame, err = encodeFrame(fallback)
	if err != nil {
		// Plain strings and ints always encode.
		return []byte(`{"id":null,"type":"error","error":{"code":-32603,"message":"internal error"}}` + "\n")
	}
	return frame
}

func (r *Router) dispatch(ctx context.Context, line []byte, logger *slog.Logger) any {
	req, rpcErr := parseRequest(line)
	if rpcErr != nil {
		logger.Debug("rejected request", "code", rpcErr.Code, "error", rpcErr.Message)
		return &ErrorResponse{ID: requestIDOf(line), Type: TypeError, Error: rpcErr}
	}
	logger = logger.With("id", req.ID, "function", req.Function)

	tool, ok := r.registry.Get(req.Function)
	if !ok {
		logger.Debug("tool not found")
		return errorResponse(req.ID, &RPCError{
			Code:    CodeToolNotFound,
			Message: fmt.Sprintf("tool not found: %s", req.Function),
		})
	}

	start := time.Now()
	result, err := invoke(ctx, tool, req.Arguments)
	elapsed := time.Since(start)
	if err != nil {
		rpcErr := classify(err)
		level := slog.LevelWarn
		if rpcErr.Code == CodeInternalError {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "tool call failed", "code", rpcErr.Code, "duration", elapsed, "error", err)
		return errorResponse(req.ID, rpcErr)
	}

	logger.Debug("tool call succeeded", "duration", elapsed)
	if result == nil {
		result = struct{}{}
	}
	return &SuccessResponse{ID: req.ID, Type: TypeResponse, Result: result}
}

func invoke(ctx context.Context, tool tools.Tool, args map[string]any) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			result, err = nil, &panicError{value: p}
		}
	}()
	return tool.Invoke(ctx, args)
}

// parseRequest decodes and validates one line.
func parseRequest(line []byte) (*Request, *RPCError) {
	if !json.Valid(line) {
		return nil, &RPCError{Code: CodeParseError, Message: "parse error: invalid JSON"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil || fields == nil {
		return nil, &RPCError{Code: CodeInvalidRequest, Message: "invalid request: expected a JSON object"}
	}

	var req Request
	if err := unmarshalString(fields["id"], &req.ID); err != nil {
		return nil, &RPCError{Code: CodeInvalidRequest, Message: "invalid request: id must be a string"}
	}
	if err := unmarshalString(fields["function"], &req.Function); err != nil || req.Function == "" {
		return nil, &RPCError{Code: CodeInvalidRequest, Message: "invalid request: function must be a non-empty string"}
	}

	rawArgs := bytes.TrimSpace(fields["arguments"])
	if len(rawArgs) == 0 || rawArgs[0] != '{' {
		return nil, &RPCError{Code: CodeInvalidRequest, Message: "invalid request: arguments must be an object"}
	}
	dec := json.NewDecoder(bytes.NewReader(rawArgs))
	dec.UseNumber()
	if err := dec.Decode(&req.Arguments); err != nil {
		return nil, &RPCError{Code: CodeInvalidRequest, Message: fmt.Sprintf("invalid request: arguments: %v", err)}
	}
	return &req, nil
}

var errNotString = errors.New("not a string")

func unmarshalString(raw json.RawMessage, dst *string) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return errNotString
	}
	return json.Unmarshal(raw, dst)
}

// requestIDOf recovers a string id from a line that failed validation, so
// the client can still correlate the error.
func requestIDOf(line []byte) *string {
	var head struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(line, &head); err != nil {
		return nil
	}
	var id string
	if unmarshalString(head.ID, &id) != nil {
		return nil
	}
	return &id
}

func errorResponse(id string, rpcErr *RPCError) *ErrorResponse {
	return &ErrorResponse{ID: &id, Type: TypeError, Error: rpcErr}
}

func responseID(resp any) *string {
	switch v := resp.(type) {
	case *SuccessResponse:
		return &v.ID
	case *ErrorResponse:
		return v.ID
	}
	return nil
}

func encodeFrame(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
