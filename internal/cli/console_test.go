package cli

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectLog_Discard(t *testing.T) {
	prev := log.Writer()

	restore, err := redirectLog("")
	require.NoError(t, err)
	assert.Equal(t, io.Discard, log.Writer())

	restore()
	assert.Equal(t, prev, log.Writer())
}

func TestRedirectLog_File(t *testing.T) {
	prev, prefix := log.Writer(), log.Prefix()
	path := filepath.Join(t.TempDir(), "gsconsole.log")

	restore, err := redirectLog(path)
	require.NoError(t, err)
	log.Print("dialing")
	restore()

	assert.Equal(t, prev, log.Writer())
	assert.Equal(t, prefix, log.Prefix())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dialing")
}

func TestRedirectLog_BadPath(t *testing.T) {
	_, err := redirectLog(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}
