// Package config loads, normalizes, and validates bluezip configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: ledger location, distribution output, staging space, the
// external tool binaries, and the optional launcher database used by id
// lookups and Mount hooks.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths and clear validation errors.
package config
