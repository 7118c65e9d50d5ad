// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustWriteTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	MustWriteTree(t, root, map[string]string{
		"a.txt":         "a",
		"nested/b.json": `{"b":1}`,
	})

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	if err != nil || string(data) != "a" {
		t.Fatalf("a.txt = %q, %v", data, err)
	}
	var got map[string]int
	MustReadJSON(t, filepath.Join(root, "nested", "b.json"), &got)
	if got["b"] != 1 {
		t.Errorf("b = %d, want 1", got["b"])
	}
}

func TestClearEnv(t *testing.T) {
	t.Setenv("CARPETDB_TESTUTIL_KEY", "set")
	ClearEnv(t, "CARPETDB_TESTUTIL_KEY")
	if _, ok := os.LookupEnv("CARPETDB_TESTUTIL_KEY"); ok {
		t.Error("key still set after ClearEnv")
	}
}
