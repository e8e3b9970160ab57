// Package config assembles the options of a geodraw session.
//
// Options are merged from four layers, highest priority last:
//
//	defaults     built-in values (Default)
//	file         a TOML or YAML file, chosen by extension
//	environment  GEODRAW_* variables, with a .env file next to the config
//	flags        values set from the command line
//
// The merged map is checked against a JSON schema, decoded into Options
// and validated. A Source keeps the layers so that a file change can be
// reloaded in place:
//
//	src := config.NewSource("geodraw.toml")
//	opts, err := src.Load()
//	...
//	stop, err := src.Watch(log, func(opts config.Options) { ... })
package config
