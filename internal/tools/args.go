package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// CompileArgs validates raw against schema and returns a copy with values
// coerced to their declared types: integers become int64, numbers float64,
// booleans bool. Alias keys are renamed first. Every violation wraps
// mcp.ErrInvalidParams.
func CompileArgs(raw map[string]any, schema mcp.ToolInputSchema, aliases map[string]string) (map[string]any, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	typ := strings.TrimSpace(strings.ToLower(schema.Type))
	if typ != "" && typ != "object" {
		return nil, invalidParamsError("tool input schema must be object, got %q", typ)
	}

	raw, err := rewriteAliases(raw, aliases)
	if err != nil {
		return nil, err
	}
	return coerceObject(raw, schema.Properties, schema.Required, "")
}

func rewriteAliases(raw map[string]any, aliases map[string]string) (map[string]any, error) {
	if len(raw) == 0 || len(aliases) == 0 {
		return raw, nil
	}

	rewritten := make(map[string]any, len(raw))
	for key, value := range raw {
		rewritten[key] = value
	}
	for alias, target := range aliases {
		value, ok := raw[alias]
		if !ok {
			continue
		}
		if _, exists := raw[target]; exists {
			return nil, invalidParamsError("conflicting arguments %q and %q", target, alias)
		}
		rewritten[target] = value
		delete(rewritten, alias)
	}
	return rewritten, nil
}

func coerceObject(raw map[string]any, props map[string]any, required []string, path string) (map[string]any, error) {
	if len(props) > 0 {
		for key := range raw {
			if _, ok := props[key]; !ok {
				return nil, invalidParamsError("unknown argument %q", dottedPath(path, key))
			}
		}
	}

	for _, key := range required {
		if v, ok := raw[key]; !ok || v == nil {
			return nil, invalidParamsError("missing required argument %q", dottedPath(path, key))
		}
	}

	out := make(map[string]any, len(raw))
	for key, value := range raw {
		propSchema, _ := props[key].(map[string]any)
		if propSchema == nil {
			out[key] = value
			continue
		}

		coerced, err := coerceValue(value, propSchema, dottedPath(path, key))
		if err != nil {
			return nil, err
		}
		out[key] = coerced
	}
	return out, nil
}

func coerceValue(value any, schema map[string]any, path string) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch schemaType(schema) {
	case "string":
		s, ok := value.(string)
		if !ok {
			return nil, invalidParamsType(path, "string", value)
		}
		if minLen, ok := schemaFloat(schema, "minLength"); ok && float64(len([]rune(s))) < minLen {
			return nil, invalidParamsError("argument %q must be at least %v characters", path, minLen)
		}
		if maxLen, ok := schemaFloat(schema, "maxLength"); ok && float64(len([]rune(s))) > maxLen {
			return nil, invalidParamsError("argument %q must be at most %v characters", path, maxLen)
		}
		return s, nil
	case "integer":
		i, err := coerceInteger(value, path)
		if err != nil {
			return nil, err
		}
		if err := checkRange(float64(i), schema, path); err != nil {
			return nil, err
		}
		return i, nil
	case "number":
		f, err := coerceNumber(value, path)
		if err != nil {
			return nil, err
		}
		if err := checkRange(f, schema, path); err != nil {
			return nil, err
		}
		return f, nil
	case "boolean":
		return coerceBoolean(value, path)
	case "object":
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, invalidParamsType(path, "object", value)
		}
		props, _ := schema["properties"].(map[string]any)
		return coerceObject(obj, props, requiredList(schema), path)
	default:
		return value, nil
	}
}

func checkRange(v float64, schema map[string]any, path string) error {
	if lo, ok := schemaFloat(schema, "minimum"); ok && v < lo {
		return invalidParamsError("argument %q must be >= %v, got %v", path, lo, v)
	}
	if hi, ok := schemaFloat(schema, "maximum"); ok && v > hi {
		return invalidParamsError("argument %q must be <= %v, got %v", path, hi, v)
	}
	return nil
}

func coerceInteger(value any, path string) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return floatToInt64(v, path)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil && !math.IsInf(f, 0) {
			return 0, invalidParamsError("argument %q must be integer", path)
		}
		return floatToInt64(f, path)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, invalidParamsError("argument %q must be integer: %v", path, err)
		}
		return i, nil
	default:
		return 0, invalidParamsType(path, "integer", value)
	}
}

// floatToInt64 accepts whole numbers within [-2^63, 2^63).
func floatToInt64(f float64, path string) (int64, error) {
	if math.Trunc(f) != f {
		return 0, invalidParamsError("argument %q must be integer", path)
	}
	if f < -(1<<63) || f >= 1<<63 {
		return 0, invalidParamsError("argument %q out of range, got %v", path, f)
	}
	return int64(f), nil
}

func coerceNumber(value any, path string) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, invalidParamsError("argument %q must be number: %v", path, err)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, invalidParamsError("argument %q must be number: %v", path, err)
		}
		return f, nil
	default:
		return 0, invalidParamsType(path, "number", value)
	}
}

func coerceBoolean(value any, path string) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, invalidParamsError("argument %q must be boolean: %v", path, err)
		}
		return b, nil
	default:
		return false, invalidParamsType(path, "boolean", value)
	}
}

func requiredList(schema map[string]any) []string {
	switch v := schema["required"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func schemaType(schema map[string]any) string {
	if t, ok := schema["type"].(string); ok {
		return strings.TrimSpace(strings.ToLower(t))
	}
	if _, ok := schema["properties"]; ok {
		return "object"
	}
	return ""
}

func schemaFloat(schema map[string]any, key string) (float64, bool) {
	switch v := schema[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func invalidParamsType(path, want string, got any) error {
	return invalidParamsError("argument %q must be %s, got %T", path, want, got)
}

func invalidParamsError(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s", mcp.ErrInvalidParams, msg)
}

func dottedPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
