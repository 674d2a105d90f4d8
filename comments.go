package config

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// CommentWidth is the column at which option comments are wrapped.
const CommentWidth = 30

// WrapComments wraps each raw comment at CommentWidth and flattens the lines,
// keeping word order. Words longer than the width are kept intact.
func WrapComments(raw ...string) []string {
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, comment := range raw {
		wrapped := wordwrap.WrapString(comment, CommentWidth)
		out = append(out, strings.Split(wrapped, "\n")...)
	}
	return out
}
