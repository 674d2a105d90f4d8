// Package rules evaluates small boolean expressions used to decide whether an
// option lock applies. Three engines are available: expr-lang (the default),
// CEL, and goja when built with the js_eval tag.
//
// Every engine sees the same variables:
//
//	option    the option path template, e.g. "worlds.%s.pvp"
//	path      the resolved path, e.g. "worlds.nether.pvp"
//	args      the replacement arguments as a list of strings
//	now       the evaluation timestamp
//	metadata  caller supplied values
//
// Functions registered on a FunctionRegistry are callable by name, and through
// call("name", args...).
package rules
