package render

import (
	"encoding/json"
	"io"
)

// RenderJSON writes v as indented JSON, used by every command under --json
func RenderJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
