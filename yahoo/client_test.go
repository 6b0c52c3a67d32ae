package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1735776000, 1735862400, 1735948800],
      "events": {
        "dividends": {
          "1735862400": {"amount": 0.25, "date": 1735862400}
        }
      },
      "indicators": {
        "quote": [{"close": [100.5, null, 102.25]}]
      }
    }],
    "error": null
  }
}`

func TestGetDailyBars(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/SCHD", r.URL.Path)
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "div", r.URL.Query().Get("events"))
		fmt.Fprint(w, chartBody)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	bars, divs, err := c.GetDailyBars(context.Background(), "SCHD", "1y")
	require.NoError(t, err)

	// The null close is dropped.
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.InDelta(t, 100.5, bars[0].Close, 1e-9)
	assert.Equal(t, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), bars[1].Date)
	assert.InDelta(t, 102.25, bars[1].Close, 1e-9)

	require.Len(t, divs, 1)
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), divs[0].Date)
	assert.InDelta(t, 0.25, divs[0].Amount, 1e-9)
}

func TestGetDailyBarsChartError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, _, err := c.GetDailyBars(context.Background(), "NOPE", "")
	assert.ErrorContains(t, err, "No data found")
}

func TestGetDailyBarsHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, _, err := c.GetDailyBars(context.Background(), "SCHD", "1y")
	assert.ErrorContains(t, err, "status 429")
}

func TestGetDailyBarsEmptyTicker(t *testing.T) {
	t.Parallel()

	c := NewClient("http://localhost:0")
	_, _, err := c.GetDailyBars(context.Background(), "", "1y")
	assert.ErrorContains(t, err, "ticker is required")
}

func TestGetHistory(t *testing.T) {
	t.Parallel()

	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		fmt.Fprint(w, chartBody)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	prices, divs, err := c.GetHistory(context.Background(), []string{"AAA", "BBB"}, "1y")
	require.NoError(t, err)

	assert.Equal(t, []string{"/v8/finance/chart/AAA", "/v8/finance/chart/BBB"}, calls)
	assert.Len(t, prices["AAA"], 2)
	assert.Len(t, divs["BBB"], 1)
}
