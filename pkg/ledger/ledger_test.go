package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.txt")

	l, err := CreateLedger(path)
	require.NoError(t, err)

	l.Infof("Match %s - saved", "NA1_1")
	l.Errorf("Match %s - FAILED: %v", "NA1_2", "status 500")
	require.NoError(t, l.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[INFO]")
	assert.Contains(t, lines[0], "NA1_1 - saved")
	assert.Contains(t, lines[1], "[ERROR]")
	assert.Contains(t, lines[1], "status 500")
}

// Reopening across runs appends without touching prior entries.
func TestLedgerSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.txt")

	first, err := CreateLedger(path)
	require.NoError(t, err)
	first.Infof("first run")
	require.NoError(t, first.Close())

	second, err := CreateLedger(path)
	require.NoError(t, err)
	second.Infof("second run")
	require.NoError(t, second.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first run")
	assert.Contains(t, lines[1], "second run")
}
