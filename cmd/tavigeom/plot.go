package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"tavigeom/pkg/scurve"
)

// writeSCurveChart renders the S-curve as a standalone HTML line chart so the
// angle relationship can be eyeballed without the full viewer.
func writeSCurveChart(curve scurve.Data, caseLabel, path string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Annulus S-curve",
			Width:     "900px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Annulus S-curve",
			Subtitle: fmt.Sprintf("case=%s: gantry angle pairs keeping the beam edge-on to the annulus", caseLabel),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "LAO/RAO (°)", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "CRAN/CAUD (°)", NameLocation: "middle", NameGap: 40, Min: -90, Max: 90}),
	)

	xs := make([]string, len(curve.LaoRao))
	ys := make([]opts.LineData, len(curve.CranCaud))
	for i := range curve.LaoRao {
		xs[i] = fmt.Sprintf("%.0f", curve.LaoRao[i])
		ys[i] = opts.LineData{Value: curve.CranCaud[i]}
	}
	line.SetXAxis(xs)
	line.AddSeries("s-curve", ys, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()
	if err := line.Render(f); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
