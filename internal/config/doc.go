// Package config loads service settings from defaults, an optional
// config.yaml in the working directory and TASKS_-prefixed environment
// variables, then validates them before anything else starts.
package config
