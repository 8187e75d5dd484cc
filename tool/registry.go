package tool

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is the immutable mapping of tool name to definition plus an alias
// table. It is constructed once at wiring time and injected wherever tool
// resolution is needed; no component mutates it afterwards, so it is safe for
// concurrent use without locking.
type Registry struct {
	defs    map[string]*Definition
	aliases map[string]string
	names   []string // registration order, for stable catalogs
}

// NewRegistry validates and indexes the provided definitions. It fails on
// empty or duplicate names, aliases colliding with names or other aliases,
// and definitions without a handler.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		defs:    make(map[string]*Definition, len(defs)),
		aliases: map[string]string{},
	}
	for i := range defs {
		def := defs[i]
		if def.Name == "" {
			return nil, NewToolError("", "definition missing name", "INVALID_DEFINITION")
		}
		if def.Handler == nil {
			return nil, NewToolError(def.Name, "definition missing handler", "INVALID_DEFINITION")
		}
		if _, dup := r.defs[def.Name]; dup {
			return nil, NewToolError(def.Name, "duplicate tool name", "DUPLICATE_NAME")
		}
		r.defs[def.Name] = &def
		r.names = append(r.names, def.Name)
	}
	for name, def := range r.defs {
		for _, alias := range def.Aliases {
			if _, clash := r.defs[alias]; clash {
				return nil, NewToolError(name, fmt.Sprintf("alias %q collides with a tool name", alias), "DUPLICATE_ALIAS")
			}
			if _, dup := r.aliases[alias]; dup {
				return nil, NewToolError(name, fmt.Sprintf("alias %q registered twice", alias), "DUPLICATE_ALIAS")
			}
			r.aliases[alias] = name
		}
	}
	return r, nil
}

// MustNewRegistry is a NewRegistry variant that panics on error, for wiring
// code with statically known definitions.
func MustNewRegistry(defs ...Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the definition for a tool name or alias.
func (r *Registry) Resolve(nameOrAlias string) (*Definition, bool) {
	if def, ok := r.defs[nameOrAlias]; ok {
		return def, true
	}
	if name, ok := r.aliases[nameOrAlias]; ok {
		return r.defs[name], true
	}
	return nil, false
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.defs) }

// RequiredArgs returns the required argument names of a tool's schema.
func (r *Registry) RequiredArgs(nameOrAlias string) []string {
	def, ok := r.Resolve(nameOrAlias)
	if !ok {
		return nil
	}
	return schemaRequired(def.ArgsSchema)
}

// Catalog renders a flat text block describing every enabled tool: name,
// description and its required/optional parameters. The block is assembled
// once per turn by the pipeline and shared across detector invocations.
func (r *Registry) Catalog() string {
	var b strings.Builder
	for _, name := range r.names {
		def := r.defs[name]
		if !def.Enabled {
			continue
		}
		b.WriteString(name)
		if def.Description != "" {
			b.WriteString(" — ")
			b.WriteString(def.Description)
		}
		b.WriteByte('\n')

		required := schemaRequired(def.ArgsSchema)
		optional := schemaOptional(def.ArgsSchema, required)
		if len(required) > 0 {
			b.WriteString("  required: ")
			b.WriteString(strings.Join(required, ", "))
			b.WriteByte('\n')
		}
		if len(optional) > 0 {
			b.WriteString("  optional: ")
			b.WriteString(strings.Join(optional, ", "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func schemaRequired(schema map[string]any) []string {
	if schema == nil {
		return nil
	}
	switch req := schema["required"].(type) {
	case []string:
		out := make([]string, len(req))
		copy(out, req)
		return out
	case []any:
		var out []string
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

func schemaOptional(schema map[string]any, required []string) []string {
	if schema == nil {
		return nil
	}
	properties, _ := schema["properties"].(map[string]any)
	isRequired := map[string]bool{}
	for _, r := range required {
		isRequired[r] = true
	}
	var out []string
	for name := range properties {
		if !isRequired[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
