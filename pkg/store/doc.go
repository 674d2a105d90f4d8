// Package store provides an in-memory hierarchical key-value tree addressed by
// dotted paths. It satisfies config.Store and backs the file based wrappers.
//
// Paths are split on "." and walk nested map[string]any values. Writing a path
// creates missing intermediate maps and replaces non-map intermediates.
// Writing nil removes the key. Values handed in or out are deep copied so the
// tree never aliases caller memory.
package store
