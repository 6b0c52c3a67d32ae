package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRunOrg(t *testing.T) {
	t.Parallel()

	out, err := FormatRunOrg(testRun("run-abc123"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "* BACKTEST: AAA, BBB"))
	assert.Contains(t, out, ":PROPERTIES:")
	assert.Contains(t, out, ":RUN_ID:       run-abc123")
	assert.Contains(t, out, ":START_DATE:   2024-01-02")
	assert.Contains(t, out, ":TOTAL_RETURN: 42.00%")
	assert.Contains(t, out, ":MAX_DD:       18.00%")
	assert.Contains(t, out, ":BREACHES:     3")
	assert.Contains(t, out, ":END:")
	assert.Contains(t, out, `{"coreFraction":0.4}`)
	assert.Contains(t, out, "** Leverage Drag")
	assert.Contains(t, out, "Unlevered: *21.00%*")
}

func TestFormatRunOrgMissingRunID(t *testing.T) {
	t.Parallel()

	rec := testRun("")
	out, err := FormatRunOrg(rec)
	require.NoError(t, err)
	assert.Contains(t, out, "(run-id?)")
}
