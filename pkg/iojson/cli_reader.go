package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader reads a JSON payload from the --file flag or, when the flag is
// unset, from piped stdin.
type FileReader struct {
	fileFlagValue string
	stdin         *os.File
}

func (fr *FileReader) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

// ReadBytes returns the raw payload without decoding it.
func (fr *FileReader) ReadBytes() ([]byte, error) {
	if fr.fileFlagValue != "" {
		data, err := os.ReadFile(fr.fileFlagValue)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return data, nil
	}

	stdin := fr.stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return nil, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// Read decodes the payload into T.
func Read[T any](fr *FileReader) (T, error) {
	var out T

	data, err := fr.ReadBytes()
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode JSON: %w", err)
	}
	return out, nil
}
