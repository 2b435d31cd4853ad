package rows

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ir"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

const sampleJSON = `[{"A": 1, "name": "x"}, {"A": 2.5, "name": null}]`

func assertSample(t *testing.T, rows []*MapRow) {
	t.Helper()
	require.Len(t, rows, 2)
	assert.Equal(t, ir.Int(1), rows[0].Value("a"))
	assert.Equal(t, ir.String("x"), rows[0].Value("NAME"))
	assert.Equal(t, ir.Float(2.5), rows[1].Value("a"))
	assert.Equal(t, ir.Null{}, rows[1].Value("name"))
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"json", "rows.json", []byte(sampleJSON)},
		{"json rows member", "rows.json", []byte(`{"rows": ` + sampleJSON + `}`)},
		{"jsonl", "rows.jsonl", []byte("{\"A\": 1, \"name\": \"x\"}\n\n{\"A\": 2.5, \"name\": null}\n")},
		{"ndjson", "rows.ndjson", []byte("{\"A\": 1, \"name\": \"x\"}\n{\"A\": 2.5, \"name\": null}")},
		{"yaml", "rows.yaml", []byte("- A: 1\n  name: x\n- A: 2.5\n  name: null\n")},
		{"yml rows member", "rows.yml", []byte("rows:\n  - {A: 1, name: x}\n  - {A: 2.5, name: ~}\n")},
		{"cue", "rows.cue", []byte("rows: [{A: 1, name: \"x\"}, {A: 2.5, name: null}]\n")},
		{"gzip json", "rows.json.gz", gzipBytes(t, []byte(sampleJSON))},
		{"zstd jsonl", "rows.JSONL.zst", zstdBytes(t, []byte("{\"A\": 1, \"name\": \"x\"}\n{\"A\": 2.5, \"name\": null}\n"))},
		{"gzip yaml", "rows.yaml.gz", gzipBytes(t, []byte("- {A: 1, name: x}\n- {A: 2.5, name: null}\n"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Load(writeFile(t, tt.file, tt.data))
			require.NoError(t, err)
			assertSample(t, rows)
		})
	}
}

func TestLoadSingleObject(t *testing.T) {
	rows, err := Load(writeFile(t, "one.json", []byte(`{"A": 1}`)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ir.Int(1), rows[0].Value("A"))
}

func TestLoadEmptyFile(t *testing.T) {
	for _, name := range []string{"empty.json", "empty.jsonl", "empty.yaml"} {
		rows, err := Load(writeFile(t, name, nil))
		require.NoError(t, err, name)
		assert.Empty(t, rows, name)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		code string
		line int
	}{
		{"unsupported extension", "rows.csv", []byte("a,b"), ErrCodeUnsupported, 0},
		{"bad json", "rows.json", []byte(`[{"A": }]`), ErrCodeParse, 0},
		{"json scalar record", "rows.json", []byte(`[1]`), ErrCodeShape, 0},
		{"bad jsonl line", "rows.jsonl", []byte("{\"A\": 1}\n{oops}\n"), ErrCodeParse, 2},
		{"jsonl array line", "rows.jsonl", []byte("[1]\n"), ErrCodeShape, 1},
		{"yaml scalar", "rows.yaml", []byte("42\n"), ErrCodeShape, 0},
		{"yaml list of scalars", "rows.yaml", []byte("- 1\n"), ErrCodeShape, 0},
		{"bad cue", "rows.cue", []byte("rows: [{A: 1 +}]"), ErrCodeParse, 0},
		{"incomplete cue", "rows.cue", []byte("rows: [{A: int}]"), ErrCodeParse, 0},
		{"bad gzip", "rows.json.gz", []byte("not gzip"), ErrCodeRead, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.data)
			_, err := Load(path)
			require.Error(t, err)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.code, le.Code)
			assert.Equal(t, tt.line, le.Line)
			assert.Equal(t, path, le.Path)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path        string
		format      Format
		compression string
	}{
		{"a.json", FormatJSON, ""},
		{"dir.v2/a.YAML", FormatYAML, ""},
		{"a.ndjson.zst", FormatJSONL, ".zst"},
		{"a.cue.gz", FormatCUE, ".gz"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, compression, err := DetectFormat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.compression, compression)
		})
	}

	_, _, err := DetectFormat("a.gz")
	assert.Error(t, err)
}

func TestLoadErrorFormat(t *testing.T) {
	err := &LoadError{Code: ErrCodeParse, Path: "r.jsonl", Line: 3, Message: "bad"}
	assert.Equal(t, "r.jsonl:3: E013: bad", err.Error())
	assert.Equal(t, "E011: nope", (&LoadError{Code: ErrCodeUnsupported, Message: "nope"}).Error())
}
