// Package log builds the slog logger used by picgc.
//
// The SecureHandler wraps any slog.Handler and masks sensitive values before
// they are written: attributes whose key looks like a credential (password,
// dsn, token, ...) and values that look like a connection string with an
// embedded password. Database credentials come from configuration files and
// the environment, so they are masked even in debug output.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, log.Options{Verbose: true})
//	logger.Info("connecting", "user", "gc", "password", "s3cret") // password=***REDACTED***
//	slog.SetDefault(logger)
//
// Text output uses the "2006-01-02 15:04:05" timestamp layout.
package log
