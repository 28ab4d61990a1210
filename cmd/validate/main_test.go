package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_BundledData(t *testing.T) {
	dataDir := filepath.Join("..", "..", "data")
	var out bytes.Buffer

	code := run(filepath.Join(dataDir, "communes.json"), filepath.Join(dataDir, "fires.json"), &out)

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "21/22 communes kept, 24 fires")
}

func TestRun_MissingFile(t *testing.T) {
	var out bytes.Buffer

	code := run(filepath.Join(t.TempDir(), "absent.json"), "fires.json", &out)

	assert.Equal(t, 1, code)
}

func TestPhaseErrorf(t *testing.T) {
	p := &phase{name: "sample"}
	assert.True(t, p.passed())

	p.errorf("commune %s missing", "Evisa")

	assert.False(t, p.passed())
	assert.Equal(t, []string{"commune Evisa missing"}, p.errors)
}
