package journal

import (
	"bytes"
	"strings"
	"text/template"
	"time"
)

var runOrgFuncs = template.FuncMap{
	"pct": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"join": func(s []string) string { return strings.Join(s, ", ") },
}

// FormatRunOrg renders one run summary as an Org heading with a
// properties drawer, for pasting into a research notebook.
func FormatRunOrg(r RunRecord) (string, error) {
	t, err := template.New("run").Funcs(runOrgFuncs).Parse(runOrgTemplate)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const runOrgTemplate = `* BACKTEST: {{join .Tickers}}
:PROPERTIES:
:RUN_ID:       {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:TICKERS:      {{join .Tickers}}
:START_DATE:   {{.Start.Format "2006-01-02"}}
:END_DATE:     {{.End.Format "2006-01-02"}}
:TOTAL_RETURN: {{printf "%.2f" (pct .TotalReturn)}}%
:CAGR:         {{printf "%.2f" (pct .CAGR)}}%
:VOL_ANN:      {{printf "%.2f" (pct .VolAnn)}}%
:SHARPE:       {{printf "%.2f" .Sharpe}}
:SORTINO:      {{printf "%.2f" .Sortino}}
:MAX_DD:       {{printf "%.2f" (pct .MaxDrawdown)}}%
:HIT_RATE:     {{printf "%.2f" (pct .HitRate)}}%
:UNLEV_RETURN: {{printf "%.2f" (pct .UnleveredReturn)}}%
:BREACHES:     {{.MarginBreaches}}
:CREATED:      [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Parameters
#+begin_src json
{{printf "%s" .Params}}
#+end_src

** Leverage Drag
- Levered:   *{{printf "%.2f" (pct .TotalReturn)}}%*
- Unlevered: *{{printf "%.2f" (pct .UnleveredReturn)}}%*
- Margin breaches: {{.MarginBreaches}}
`
