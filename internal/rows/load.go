package rows

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/go-mmap/mmap"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fastjson"
	"gopkg.in/yaml.v3"
)

// Format identifies a row file encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatCUE   Format = "cue"
)

// Error codes for LoadError.
const (
	ErrCodeNotFound    = "E010"
	ErrCodeUnsupported = "E011"
	ErrCodeRead        = "E012"
	ErrCodeParse       = "E013"
	ErrCodeShape       = "E014"
)

// LoadError represents an error that occurred while loading rows.
type LoadError struct {
	Code    string
	Path    string
	Line    int // 1-based record line for JSON Lines, 0 otherwise
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if loc != "" {
		return fmt.Sprintf("%s: %s: %s", loc, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

var jsonParsers fastjson.ParserPool

// DetectFormat picks a format from a file name. A trailing .gz or .zst is
// ignored. The second result is the compression suffix, if any.
func DetectFormat(path string) (Format, string, error) {
	name := strings.ToLower(filepath.Base(path))
	var compression string
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(name, ext) {
			compression = ext
			name = strings.TrimSuffix(name, ext)
			break
		}
	}

	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON, compression, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, compression, nil
	case ".yaml", ".yml":
		return FormatYAML, compression, nil
	case ".cue":
		return FormatCUE, compression, nil
	}
	return "", "", &LoadError{
		Code:    ErrCodeUnsupported,
		Path:    path,
		Message: "unsupported row file extension (want .json, .jsonl, .ndjson, .yaml, .yml or .cue)",
	}
}

// Load reads every row in the file at path. The format follows the file
// extension; see DetectFormat.
//
// A document may be a list of objects, an object whose "rows" member is
// such a list, or a single object. JSON Lines files hold one object per
// line; blank lines are skipped.
func Load(path string) ([]*MapRow, error) {
	format, compression, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := readFile(path, compression)
	if err != nil {
		return nil, err
	}

	rows, err := Decode(data, format)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}

	slog.Debug("loaded rows", "path", path, "format", format, "rows", len(rows))
	return rows, nil
}

func readFile(path, compression string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "file not found", Err: err}
		}
		return nil, &LoadError{Code: ErrCodeRead, Path: path, Message: err.Error(), Err: err}
	}

	if compression == "" {
		data, err := readMapped(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeRead, Path: path, Message: err.Error(), Err: err}
		}
		return data, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Path: path, Message: err.Error(), Err: err}
	}
	defer f.Close()

	data, err := decompress(f, compression)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Path: path, Message: "decompress: " + err.Error(), Err: err}
	}
	return data, nil
}

// readMapped copies an uncompressed file out of a read-only mapping.
func readMapped(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, nil
	}

	f, err := mmap.OpenFile(path, mmap.Read)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data := make([]byte, f.Len())
	if _, err := f.ReadAt(data, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return data, nil
}

func decompress(r io.Reader, compression string) ([]byte, error) {
	switch compression {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return nil, fmt.Errorf("unknown compression %q", compression)
}

// Decode parses rows from data in the given format.
func Decode(data []byte, format Format) ([]*MapRow, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatJSONL:
		return decodeJSONL(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatCUE:
		return decodeCUE(data)
	}
	return nil, &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported format %q", format)}
}

func decodeJSON(data []byte) ([]*MapRow, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	p := jsonParsers.Get()
	defer jsonParsers.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), Err: err}
	}

	if v.Type() == fastjson.TypeObject {
		if inner := v.Get("rows"); inner != nil && inner.Type() == fastjson.TypeArray {
			v = inner
		}
	}

	if v.Type() != fastjson.TypeArray {
		row, err := jsonMapRow(v, 0)
		if err != nil {
			return nil, err
		}
		return []*MapRow{row}, nil
	}

	arr, _ := v.Array()
	out := make([]*MapRow, 0, len(arr))
	for i, item := range arr {
		row, err := jsonMapRow(item, i)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func jsonMapRow(v *fastjson.Value, index int) (*MapRow, error) {
	jr, err := NewJSONRow(v)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeShape, Message: fmt.Sprintf("record %d: %v", index, err)}
	}
	return jr.MapRow(), nil
}

func decodeJSONL(data []byte) ([]*MapRow, error) {
	p := jsonParsers.Get()
	defer jsonParsers.Put(p)

	var out []*MapRow
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		v, err := p.ParseBytes(text)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Line: line, Message: err.Error(), Err: err}
		}
		jr, err := NewJSONRow(v)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeShape, Line: line, Message: err.Error()}
		}
		out = append(out, jr.MapRow())
	}
	if err := sc.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: err.Error(), Err: err}
	}
	return out, nil
}

func decodeYAML(data []byte) ([]*MapRow, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), Err: err}
	}
	return fromDocument(doc)
}

func decodeCUE(data []byte) ([]*MapRow, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename("rows.cue"))
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), Err: err}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), Err: err}
	}

	var doc any
	if err := v.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), Err: err}
	}
	return fromDocument(doc)
}

// fromDocument accepts a decoded document: nil, a list of objects, an
// object with a "rows" list, or a single object.
func fromDocument(doc any) ([]*MapRow, error) {
	switch d := doc.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		if list, ok := d["rows"].([]any); ok {
			return fromList(list)
		}
		return []*MapRow{NewMapRow(d)}, nil
	case []any:
		return fromList(d)
	}
	return nil, &LoadError{Code: ErrCodeShape, Message: fmt.Sprintf("document must be a list of objects or an object, got %T", doc)}
}

func fromList(list []any) ([]*MapRow, error) {
	out := make([]*MapRow, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &LoadError{Code: ErrCodeShape, Message: fmt.Sprintf("record %d: must be an object, got %T", i, item)}
		}
		out = append(out, NewMapRow(m))
	}
	return out, nil
}
