package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{name: "JSON output mode", jsonOutput: true, verbosity: VerbosityInfo},
		{name: "Console output mode", jsonOutput: false, verbosity: VerbosityDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			if err := Initialize(tt.jsonOutput, tt.verbosity); err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if Logger == nil {
				t.Fatal("Initialize() did not set global Logger")
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("Initialize() JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}

			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		if got := VerbosityToLevel(tt.verbosity); got != tt.want {
			t.Errorf("VerbosityToLevel(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestLevelName(t *testing.T) {
	if got := LevelName(VerbosityDebug); got != "Debug (-vv)" {
		t.Errorf("LevelName(2) = %q", got)
	}
	if got := LevelName(9); got != "Trace (-vvv+)" {
		t.Errorf("LevelName(9) = %q", got)
	}
	if got := LevelName(-3); got != "Unknown" {
		t.Errorf("LevelName(-3) = %q", got)
	}
}

func TestVerbosityFromLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"", 2, false},
		{"warn", VerbosityUser, false},
		{" INFO ", VerbosityInfo, false},
		{"debug", VerbosityDebug, false},
		{"trace", VerbosityTrace, false},
		{"loud", 2, true},
	}
	for _, tt := range tests {
		got, err := VerbosityFromLevel(tt.name, 2)
		if (err != nil) != tt.wantErr {
			t.Errorf("VerbosityFromLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("VerbosityFromLevel(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

// observe swaps the global logger for an in-memory observer for the duration of the test.
func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger
	Logger = zap.New(core).Sugar()
	t.Cleanup(func() { Logger = prev })
	return logs
}

func TestSymbolHelpersAttachSymbolField(t *testing.T) {
	logs := observe(t)

	ResolveDebugw("Fact resolved", FieldVariable, "a_0")
	ReachInfow("Reach pass planned", FieldPlan, []string{"a_0"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if got := entries[0].ContextMap()[FieldSymbol]; got != "⊢" {
		t.Errorf("resolve symbol = %v", got)
	}
	if got := entries[0].ContextMap()[FieldVariable]; got != "a_0" {
		t.Errorf("variable field = %v", got)
	}
	if got := entries[1].ContextMap()[FieldSymbol]; got != "⟶" {
		t.Errorf("reach symbol = %v", got)
	}
}

func TestLoggerFromContext(t *testing.T) {
	logs := observe(t)

	ctx := WithSessionID(context.Background(), "sess-1")
	ctx = WithComponent(ctx, "session")
	LoggerFromContext(ctx).Infow("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields[FieldSessionID] != "sess-1" || fields[FieldComponent] != "session" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestLoggerFromContext_NoFields(t *testing.T) {
	if LoggerFromContext(context.Background()) != Logger {
		t.Error("expected global logger when context carries no fields")
	}
}
