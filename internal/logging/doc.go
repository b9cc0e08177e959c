// Package logging provides logging utilities for den.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("launching container", "slug", slug, "image", image)
//	logging.Warn("pane capture failed", "container", id, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Generated slug: %s", slug)
//	logging.UserSuccess("Container started: %s", slug)
//	logging.UserWarning("Failed to open browser: %v", err)
//	logging.UserError("Failed to start container: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
package logging
