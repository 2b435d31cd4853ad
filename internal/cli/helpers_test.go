package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/roach88/sieve/internal/testutil"
)

// executeRoot runs the full command tree, so config resolution applies.
func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), errBuf.String(), err
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (testing.T.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("chdir: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("chdir: restore: %v", err)
		}
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	return testutil.WriteFile(t, dir, name, content)
}

// createOrdersDB writes a small SQLite database with an orders table.
func createOrdersDB(t *testing.T) string {
	t.Helper()
	return testutil.CreateSQLite(t,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, sku TEXT, qty INTEGER, status TEXT)`,
		`INSERT INTO orders (id, sku, qty, status) VALUES
  (1, 'a', 1, 'open'),
  (2, 'b', 5, 'held'),
  (3, 'c', 7, NULL)`,
	)
}
