// Package errors provides foundational, type-safe error primitives shared by the site
// assembler and the visitor counter.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, network, analytics, state, build, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Retry behavior (never, next run, user action)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter for exit codes and error presentation
//
// Example usage:
//
//	err := errors.AnalyticsError("visitor query failed").
//		WithContext("domain", domain).
//		WithContext("day", day).
//		WithCause(originalErr).
//		Build()
package errors
