package util

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kaiwahq/kaiwa/core"
)

// CreateSchema creates a JSON schema from a Go struct using reflection.
// This is a convenience function for creating argument schemas from Go types.
func CreateSchema(structType any) map[string]any {
	t := reflect.TypeOf(structType)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}

	properties := make(map[string]any)
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
		}

		fieldSchema := map[string]any{
			"type": getJSONType(field.Type),
		}

		if description := field.Tag.Get("description"); description != "" {
			fieldSchema["description"] = description
		}

		properties[fieldName] = fieldSchema

		if !hasOmitEmpty(field.Tag.Get("json")) && !isPointer(field.Type) {
			required = append(required, fieldName)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// ValidateArgs validates arguments against a JSON-schema-like map and returns
// the full list of violations (empty when valid). Each violation carries the
// offending path, the rule that failed and a message; callers surface the
// list verbatim so consumers can render field-specific errors.
func ValidateArgs(args map[string]any, schema map[string]any) []core.Violation {
	return validateObject(args, schema, "")
}

func validateObject(args map[string]any, schema map[string]any, prefix string) []core.Violation {
	var violations []core.Violation

	for _, name := range requiredFields(schema) {
		if _, exists := args[name]; !exists {
			violations = append(violations, core.Violation{
				Path:    joinPath(prefix, name),
				Rule:    "required",
				Message: "required field is missing",
			})
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	for fieldName, value := range args {
		propSchema, exists := properties[fieldName]
		if !exists {
			continue // Allow extra fields
		}
		propMap, ok := propSchema.(map[string]any)
		if !ok {
			continue
		}
		path := joinPath(prefix, fieldName)

		expectedType, _ := propMap["type"].(string)
		if !isValidType(value, expectedType) {
			violations = append(violations, core.Violation{
				Path:    path,
				Rule:    "type",
				Message: fmt.Sprintf("expected type %s, got %T", expectedType, value),
			})
			continue
		}

		if enum, ok := propMap["enum"].([]any); ok && value != nil {
			if !enumContains(enum, value) {
				violations = append(violations, core.Violation{
					Path:    path,
					Rule:    "enum",
					Message: fmt.Sprintf("value %v not in allowed set", value),
				})
			}
		}

		if expectedType == "object" {
			if nested, ok := value.(map[string]any); ok {
				violations = append(violations, validateObject(nested, propMap, path)...)
			}
		}
	}

	return violations
}

// requiredFields tolerates both []string (hand-written schemas) and []any
// (JSON-decoded schemas).
func requiredFields(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func joinPath(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

func enumContains(enum []any, value any) bool {
	for _, e := range enum {
		if fmt.Sprintf("%v", e) == fmt.Sprintf("%v", value) {
			return true
		}
	}
	return false
}

// getJSONType returns the JSON schema type for a given Go type.
func getJSONType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return getJSONType(t.Elem())
	default:
		return "string"
	}
}

// hasOmitEmpty checks if a JSON tag has the "omitempty" option.
func hasOmitEmpty(tag string) bool {
	parts := strings.Split(tag, ",")
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "omitempty" {
			return true
		}
	}
	return false
}

// isPointer checks if a type is a pointer.
func isPointer(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr
}

// isValidType checks if a value is valid according to the expected JSON schema type.
func isValidType(value any, expectedType string) bool {
	if value == nil {
		return true // nil is valid for any type
	}

	switch expectedType {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64: // JSON unmarshaling often produces float64 for numbers
			return v == float64(int64(v)) // Check if it's actually an integer
		}
		return false
	case "number":
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true // Unknown types are assumed valid
	}
}
