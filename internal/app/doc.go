// Package app contains the core application logic. It defines the main App
// struct, the greeting action, and the run lifecycle that classifies every
// failure into an exit code, decoupled from any specific entrypoint.
package app
