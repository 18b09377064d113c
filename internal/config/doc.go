// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional YAML file. It provides
// type-safe access to server, asset source, UI and session settings while
// keeping configuration details separate from the flashcard engine.
package config
