package chart

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/marginsim/market"
)

func equityCurve(values ...float64) []market.TimePoint {
	out := make([]market.TimePoint, len(values))
	for i, v := range values {
		out[i] = market.TimePoint{
			Date:  time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Value: v,
		}
	}
	return out
}

func TestRenderEquity(t *testing.T) {
	t.Parallel()

	levered := equityCurve(1000, 1100, 1050, 1200)
	unlevered := equityCurve(1000, 1030, 1020, 1060)

	png, err := RenderEquity(levered, unlevered)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderEquityTooFewPoints(t *testing.T) {
	t.Parallel()

	_, err := RenderEquity(equityCurve(1000), equityCurve(1000))
	assert.ErrorContains(t, err, "at least 2 data points")
}

func TestWriteEquityPNG(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "equity.png")
	err := WriteEquityPNG(path, equityCurve(1000, 1100, 1200), equityCurve(1000, 1020, 1040))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
