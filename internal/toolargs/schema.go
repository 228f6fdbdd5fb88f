package toolargs

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
)

// Param is one declared tool parameter.
type Param struct {
	Name        string
	Description string
	Required    bool
}

// SchemaParams extracts the declared parameters from a tool's input schema.
// JSON objects carry no declaration order, so parameters are returned sorted
// by name to keep interactive prompting deterministic.
func SchemaParams(tool *mcp.Tool) []Param {
	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return nil
	}

	required := make(map[string]bool, len(tool.InputSchema.Required))
	for _, name := range tool.InputSchema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]Param, 0, len(names))
	for _, name := range names {
		p := Param{Name: name, Required: required[name]}
		if spec, ok := props[name].(map[string]interface{}); ok {
			if desc, ok := spec["description"].(string); ok {
				p.Description = desc
			}
		}
		params = append(params, p)
	}
	return params
}
