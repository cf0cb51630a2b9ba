package logger

import (
	"github.com/teranos/cleaner/sym"
)

// Symbol-aware logging helpers.
// These functions log with the symbol as a structured field, not in the message.
//
// Usage:
//
//	// Instead of:
//	logger.Debugw(sym.Resolve + " Fact resolved", "variable", v)
//
//	// Use:
//	logger.ResolveDebugw("Fact resolved", "variable", v)

func withSymbol(symbol string, keysAndValues []interface{}) []interface{} {
	return append([]interface{}{FieldSymbol, symbol}, keysAndValues...)
}

// ResolveDebugw logs a debug message with the Resolve symbol (⊢)
func ResolveDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, withSymbol(sym.Resolve, keysAndValues)...)
	}
}

// ReachInfow logs an info message with the Reach symbol (⟶)
func ReachInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, withSymbol(sym.Reach, keysAndValues)...)
	}
}

// ScoreDebugw logs a debug message with the Score symbol (∿)
func ScoreDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, withSymbol(sym.Score, keysAndValues)...)
	}
}

// ScoreWarnw logs a warning message with the Score symbol (∿)
func ScoreWarnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Warnw(msg, withSymbol(sym.Score, keysAndValues)...)
	}
}
