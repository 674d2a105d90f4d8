package config

import (
	"fmt"
	"strings"
)

// FieldDescriptor documents a single declared option.
type FieldDescriptor struct {
	Path         string   `json:"path"`
	Type         string   `json:"type"`
	Default      any      `json:"default,omitempty"`
	HasDefault   bool     `json:"has_default"`
	Placeholders int      `json:"placeholders,omitempty"`
	Comments     []string `json:"comments,omitempty"`
}

// Describe returns a descriptor per registered option in declaration order.
func (h *Holder) Describe() []FieldDescriptor {
	options := h.Options()
	out := make([]FieldDescriptor, 0, len(options))
	for _, option := range options {
		out = append(out, FieldDescriptor{
			Path:         option.Path(),
			Type:         option.TypeName(),
			Default:      option.DefaultValue(),
			HasDefault:   option.HasDefault(),
			Placeholders: option.Placeholders(),
			Comments:     option.Comments(),
		})
	}
	return out
}

// Markdown renders the holder's options as a markdown reference table.
func (h *Holder) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", h.name)
	b.WriteString("| Path | Type | Default | Description |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, field := range h.Describe() {
		def := ""
		if field.HasDefault {
			def = fmt.Sprintf("`%v`", field.Default)
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n",
			field.Path, field.Type, def, strings.Join(field.Comments, " "))
	}
	return b.String()
}
