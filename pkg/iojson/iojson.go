// Package iojson holds helpers for reading and writing JSON from the
// command line.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteWith writes obj as indented JSON to w. A marshal failure is reported
// on ew as a JSON error object and returned.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		msg, _ := json.Marshal(err.Error())
		_, _ = fmt.Fprintf(ew, `{"message":"error marshaling output","data":{"json_error":%s}}`+"\n", msg)
		return fmt.Errorf("marshal output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr].
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}
