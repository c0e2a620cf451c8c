// Package logging owns the application's logging lifecycle: a
// daily-rotating file sink and a console sink behind a single logger
// handle, retention cleanup of old segments, and a guaranteed-success
// fallback when the full setup cannot be completed.
//
// The package never installs a global logger. Setup returns a handle that
// the rest of the program carries explicitly or through ctxlog.
package logging
