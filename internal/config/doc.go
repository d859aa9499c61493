// Package config defines the runtime settings of the sentinel daemon and
// provides helpers to load and validate them in YAML format.
//
// The Config type holds broker connection details, the inbound and outbound
// topic names, countdown durations and notification credentials. Validation
// is strict: the daemon must not start with an undefined timer configuration
// or missing topics.
package config
