package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldSessionID = "session_id"
	FieldComponent = "component"

	// Cleaning
	FieldVariable   = "variable"
	FieldTruth      = "truth"
	FieldTuple      = "tuple"
	FieldSource     = "source"
	FieldState      = "state"
	FieldPending    = "pending"
	FieldPlan       = "plan"
	FieldProvenance = "provenance"

	// Scoring
	FieldScore       = "score"
	FieldDesired     = "desired"
	FieldProbability = "probability"
	FieldRisky       = "risky"
	FieldURL         = "url"
	FieldStatus      = "status"
	FieldDurationMS  = "duration_ms"

	// Data
	FieldPath  = "path"
	FieldCount = "count"
	FieldError = "error"

	FieldSymbol = "symbol"
)

type contextKey string

const (
	sessionIDKey contextKey = "logger_session_id"
	componentKey contextKey = "logger_component"
)

// WithSessionID adds a session ID to the context for logging
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok && sessionID != "" {
		fields = append(fields, FieldSessionID, sessionID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Client struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewClient() *Client {
//	    return &Client{logger: logger.ComponentLogger("scoring")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
