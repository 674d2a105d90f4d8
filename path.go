package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// PathSeparator separates hierarchy levels in a path.
const PathSeparator = "."

// ResolvePath substitutes the positional %s placeholders of template with
// replacements, in order. %% renders a literal percent sign and surplus
// replacements are ignored. Every trailing separator is stripped from the
// result, so "groups.%s" resolved with "" yields "groups".
func ResolvePath(template string, replacements ...string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	want := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}
		switch template[i+1] {
		case 's':
			if want < len(replacements) {
				b.WriteString(replacements[want])
			}
			want++
			i++
		case '%':
			b.WriteByte('%')
			i++
		default:
			b.WriteByte(c)
		}
	}

	if want > len(replacements) {
		return "", &PathError{
			Template:     template,
			Placeholders: want,
			Supplied:     len(replacements),
		}
	}
	return strings.TrimRight(b.String(), PathSeparator), nil
}

// CountPlaceholders returns the number of %s markers in template.
func CountPlaceholders(template string) int {
	count := 0
	for i := 0; i+1 < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		switch template[i+1] {
		case 's':
			count++
			i++
		case '%':
			i++
		}
	}
	return count
}

// Replacements converts loosely typed replacement values into path strings.
func Replacements(values ...any) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]string, len(values))
	for i, value := range values {
		converted, err := cast.ToStringE(value)
		if err != nil {
			return nil, fmt.Errorf("config: replacement %d: %w", i, err)
		}
		out[i] = converted
	}
	return out, nil
}
