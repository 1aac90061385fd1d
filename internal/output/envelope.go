package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// Response is the success envelope for JSON output.
type Response struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// ErrorResponse is the error envelope for JSON output.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
	Hint  string `json:"hint,omitempty"`
}

// Format specifies the output format.
type Format int

const (
	FormatAuto  Format = iota // Auto-detect: TTY → text, non-TTY → JSON
	FormatJSON                // JSON envelope
	FormatText                // Plain text summary + data
	FormatQuiet               // Data only, no envelope
)

// Options controls output behavior.
type Options struct {
	Format Format
	Writer io.Writer
}

// DefaultOptions returns options for standard output.
func DefaultOptions() Options {
	return Options{
		Format: FormatAuto,
		Writer: os.Stdout,
	}
}

// Writer handles all output formatting.
type Writer struct {
	opts Options
}

// New creates a new output writer.
func New(opts Options) *Writer {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	return &Writer{opts: opts}
}

// ResponseOption customizes a success response.
type ResponseOption func(*Response)

// WithSummary sets a one-line human summary.
func WithSummary(summary string) ResponseOption {
	return func(r *Response) { r.Summary = summary }
}

// OK outputs a success response.
func (w *Writer) OK(data any, opts ...ResponseOption) error {
	resp := &Response{OK: true, Data: data}
	for _, opt := range opts {
		opt(resp)
	}
	return w.write(resp)
}

// Err outputs an error response.
func (w *Writer) Err(err error) error {
	e := AsError(err)
	resp := &ErrorResponse{
		OK:    false,
		Error: e.Message,
		Code:  e.Code,
		Hint:  e.Hint,
	}
	return w.write(resp)
}

func (w *Writer) write(v any) error {
	format := w.opts.Format

	if format == FormatAuto {
		if isTTY(w.opts.Writer) {
			format = FormatText
		} else {
			format = FormatJSON
		}
	}

	switch format {
	case FormatQuiet:
		if resp, ok := v.(*Response); ok {
			return w.writeJSON(resp.Data)
		}
		return w.writeJSON(v)
	case FormatText:
		return w.writeText(v)
	default:
		return w.writeJSON(v)
	}
}

// isTTY checks if the writer is a terminal.
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		fi, err := f.Stat()
		if err != nil {
			return false
		}
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func (w *Writer) writeJSON(v any) error {
	enc := json.NewEncoder(w.opts.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (w *Writer) writeText(v any) error {
	switch resp := v.(type) {
	case *Response:
		if resp.Summary != "" {
			fmt.Fprintln(w.opts.Writer, resp.Summary)
		}
		if resp.Data != nil {
			w.renderData(resp.Data)
		}
		return nil
	case *ErrorResponse:
		fmt.Fprintf(w.opts.Writer, "Error: %s\n", resp.Error)
		if resp.Hint != "" {
			fmt.Fprintf(w.opts.Writer, "Hint: %s\n", resp.Hint)
		}
		return nil
	default:
		return w.writeJSON(v)
	}
}

func (w *Writer) renderData(data any) {
	switch d := normalizeData(data).(type) {
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w.opts.Writer, "%s: %v\n", k, d[k])
		}
	case []any:
		for _, item := range d {
			fmt.Fprintf(w.opts.Writer, "%v\n", item)
		}
	case string:
		fmt.Fprintln(w.opts.Writer, d)
	default:
		_ = w.writeJSON(d)
	}
}

// normalizeData converts json.RawMessage to standard Go types so text
// rendering sees maps and slices rather than raw bytes.
func normalizeData(data any) any {
	if raw, ok := data.(json.RawMessage); ok {
		var unmarshaled any
		if err := json.Unmarshal(raw, &unmarshaled); err == nil {
			return unmarshaled
		}
		return string(raw)
	}
	return data
}
