package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"news-timeline-go/internal/types"
)

// ErrInputNotFound is returned when a stage's input file does not exist.
var ErrInputNotFound = errors.New("input file not found")

// ErrInvalidJSON is returned when the Stage 2 input is not a JSON object of year buckets.
var ErrInvalidJSON = errors.New("invalid year-bucket JSON")

func checkInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a directory", path)
	}
	return nil
}

// EncodeJSON renders v with the given indent width and without escaping
// non-ASCII text or HTML characters. indent 0 gives compact output.
func EncodeJSON(v any, indent int) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	raw = unescapeSafe(raw)
	if indent <= 0 {
		return raw, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", strings.Repeat(" ", indent)); err != nil {
		return nil, fmt.Errorf("indent json: %w", err)
	}
	return buf.Bytes(), nil
}

// unescapeSafe turns the \u003c, \u003e, \u0026, \u2028 and \u2029 escapes
// produced by encoding/json back into literal characters. Every backslash in
// valid JSON starts an escape, so escaped backslashes are skipped as pairs.
func unescapeSafe(b []byte) []byte {
	if bytes.IndexByte(b, '\\') < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == 'u' && i+6 <= len(b) {
			switch string(b[i+2 : i+6]) {
			case "003c":
				out = append(out, '<')
				i += 5
				continue
			case "003e":
				out = append(out, '>')
				i += 5
				continue
			case "0026":
				out = append(out, '&')
				i += 5
				continue
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// WriteJSONFileAtomic encodes v and replaces path with it in one rename.
func WriteJSONFileAtomic(path string, v any, indent int) error {
	b, err := EncodeJSON(v, indent)
	if err != nil {
		return err
	}
	if err := WriteFileAtomicSameDir(path, b, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteFileAtomicSameDir writes data plus a trailing newline to a temp file
// next to path and renames it over path. A failed write leaves path untouched.
func WriteFileAtomicSameDir(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_"+filepath.Base(path)+"_*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write([]byte("\n")); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ReadYearBuckets loads a Stage 1 document, keeping the year order of the
// file and each record's original JSON.
func ReadYearBuckets(path string) (*types.RawYearBuckets, error) {
	if err := checkInput(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidJSON, path)
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: %s does not hold a JSON object", ErrInvalidJSON, path)
	}
	years := types.NewRawYearBuckets()
	if err := json.Unmarshal(trimmed, years); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidJSON, path, err)
	}
	return years, nil
}
