// Package testutils holds helpers shared by the armkin tests.
package testutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

// WriteFile writes contents to name inside dir, creating dir if needed, and fails the test if it cannot.
// It returns the path of the file.
func WriteFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	test.That(t, os.MkdirAll(dir, 0o750), test.ShouldBeNil)
	path := filepath.Join(dir, name)
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

// WriteJSONFile marshals v as indented json into name inside dir and returns the path of the file.
func WriteJSONFile(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	test.That(t, err, test.ShouldBeNil)
	return WriteFile(t, dir, name, string(data))
}
