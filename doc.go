// Package config declares typed, path-addressed configuration options.
//
// An Option binds a dotted path template such as "worlds.%s.pvp" to a value
// type T, an optional default and a few documentation comments. Each %s in the
// template is filled from the replacements passed to a read or write, in order,
// and %% renders a literal percent sign.
//
// Options read from and write to a Store. Values that are absent or of the
// wrong type resolve to the option's default, or to the caller's fallback when
// the option declares none. Reads through a Registry consult its locks first.
//
//	var settings = config.NewHolder("server")
//
//	var radius = config.Register(settings,
//		config.NewWithDefault(nil, "spawn.radius", 16, "Protected radius around spawn"))
//
//	value, err := radius.Value(store)
//
// Stores live in sibling packages: pkg/store (in memory), pkg/yamlconfig
// (YAML file), pkg/viperstore and pkg/redisstore. pkg/lock provides the
// Registry.
package config
