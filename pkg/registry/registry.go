package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/shipyard-mcp/shipyard/pkg/domain"
)

// Param describes one tool parameter.
type Param struct {
	Name        string
	Type        string // JSON Schema type, "string" for every current tool
	Description string
	Required    bool
	Default     any // applied when the caller omits the parameter
}

// Descriptor is the immutable declaration of a tool: its name, a
// human-readable description, and its input schema. The descriptor set is
// fixed at process start and enumerated by tools/list.
type Descriptor struct {
	Name        string
	Description string
	Params      []Param
}

// InputSchema renders the descriptor's parameters as a JSON Schema object,
// the shape MCP clients expect in tools/list.
func (d Descriptor) InputSchema() map[string]any {
	properties := make(map[string]any, len(d.Params))
	required := []string{}
	for _, p := range d.Params {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
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

// Handler is the signature for a tool implementation. It receives validated
// arguments (defaults applied) and returns human-readable content.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Registry manages the available tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registration
}

type registration struct {
	descriptor Descriptor
	handler    Handler
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		tools: make(map[string]registration),
	}
}

// Register adds a tool to the registry.
// If a tool with the same name exists, it is overwritten.
func (r *Registry) Register(desc Descriptor, fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[desc.Name] = registration{descriptor: desc, handler: fn}
}

// List returns all descriptors, sorted by name.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.tools))
	for _, reg := range r.tools {
		out = append(out, reg.descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	descs := r.List()
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	return names
}

// Call looks up a tool by name, validates the arguments against its
// descriptor, and executes it.
//
// Failure kinds: KindUnknownTool when the name is not registered,
// KindValidationError when a required parameter is absent. Defaults are
// applied for omitted optional parameters before the handler runs, so
// handlers never see a missing key they declared a default for.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	r.mu.RLock()
	reg, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return "", domain.NewError(domain.KindUnknownTool, "tool not found: %s", name)
	}

	validated, err := validate(reg.descriptor, args)
	if err != nil {
		return "", err
	}

	return reg.handler(ctx, validated)
}

// validate checks required parameters and applies defaults. The caller's map
// is not mutated.
func validate(desc Descriptor, args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	for _, p := range desc.Params {
		v, present := out[p.Name]
		if !present || v == nil || v == "" {
			if p.Required {
				return nil, domain.NewError(domain.KindValidationError,
					"%s: missing required parameter %q", desc.Name, p.Name)
			}
			if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}
		if p.Type == "string" {
			if _, isString := v.(string); !isString {
				return nil, domain.NewError(domain.KindValidationError,
					"%s: parameter %q must be a string", desc.Name, p.Name)
			}
		}
	}
	return out, nil
}
