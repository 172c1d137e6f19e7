// Package tools holds the immutable catalogue of operations the router can
// dispatch to, together with argument validation against each tool's input
// schema.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handler runs a tool with validated arguments and returns a JSON-encodable
// result.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool is one registered operation.
type Tool struct {
	Definition mcp.Tool
	// Aliases maps alternate argument names to schema property names.
	Aliases map[string]string
	Handler Handler
}

// Name returns the registered name.
func (t Tool) Name() string {
	return t.Definition.Name
}

// Invoke validates raw against the tool's input schema and runs the handler.
func (t Tool) Invoke(ctx context.Context, raw map[string]any) (any, error) {
	args, err := CompileArgs(raw, t.Definition.InputSchema, t.Aliases)
	if err != nil {
		return nil, err
	}
	return t.Handler(ctx, args)
}

// IntegerType turns a number property into a JSON Schema integer.
func IntegerType() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

var ErrDuplicateTool = errors.New("duplicate tool name")

// Registry is the read-only tool catalogue. It is safe for concurrent use
// because nothing mutates it after NewRegistry returns.
type Registry struct {
	tools map[string]Tool
	names []string
}

// NewRegistry builds a registry from tools. Names must be non-empty and
// unique and every tool needs a handler.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return nil, errors.New("tool name must not be empty")
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", name)
		}
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTool, name)
		}
		for alias, target := range t.Aliases {
			if _, ok := t.Definition.InputSchema.Properties[target]; !ok {
				return nil, fmt.Errorf("tool %q: alias %q targets unknown argument %q", name, alias, target)
			}
		}
		r.tools[name] = t
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Get returns the tool registered under exactly name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// List returns every tool definition sorted by name.
func (r *Registry) List() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.tools[name].Definition)
	}
	return out
}
