package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData_Defaults(t *testing.T) {
	var buf bytes.Buffer
	PrintBuildData(&buf)

	out := buf.String()
	assert.Contains(t, out, "Build version: N/A")
	assert.Contains(t, out, "Build date: N/A")
	assert.Contains(t, out, "Build commit: N/A")
}

func TestPrintBuildData_Stamped(t *testing.T) {
	oldVersion, oldDate, oldCommit := Version, Date, Commit
	t.Cleanup(func() { Version, Date, Commit = oldVersion, oldDate, oldCommit })

	Version, Date, Commit = "v1.2.3", "2026-08-31", "deadbeef"

	var buf bytes.Buffer
	PrintBuildData(&buf)

	assert.Equal(t, "Build version: v1.2.3\nBuild date: 2026-08-31\nBuild commit: deadbeef\n", buf.String())
}
