// Package display renders command output as JSON or as pterm tables.
package display

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/cleaner/errors"
)

// ShouldOutputJSON reports whether cmd should print JSON: an explicit --json
// flag wins, then the root's persistent --json, then CLEANER_OUTPUT.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return envWantsJSON()
	}

	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return envWantsJSON()
}

func envWantsJSON() bool {
	switch envOutput() {
	case "json", "json-compact":
		return true
	default:
		return false
	}
}

// OutputJSON marshals v with MarshalJSON and writes it to w.
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
