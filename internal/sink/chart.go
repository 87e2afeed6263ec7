package sink

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/wcharczuk/go-chart"

	"github.com/lkuiucsb/ghcnd-export/internal/climate"
)

// Chart dimensions: 10x6 inches at the renderer's default 100 DPI.
const (
	chartWidth  = 1000
	chartHeight = 600
)

// RenderChart draws one temperature series against date and saves it as a
// PNG. Records where the chosen series is absent are skipped. When nothing
// is plottable the chart is skipped entirely; no image file is created.
func RenderChart(path, series, title string, t climate.Table) error {
	var xs []time.Time
	var ys []float64
	for _, rec := range t.Records {
		v := rec.Temp(series)
		if v == nil {
			continue
		}
		xs = append(xs, rec.Date)
		ys = append(ys, *v)
	}

	if len(xs) == 0 {
		log.Printf("INFO: nothing to plot for series %s; skipping chart", series)
		return nil
	}

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{Show: true},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis: chart.XAxis{
			Name:      "Date",
			NameStyle: chart.Style{Show: true},
			Style:     chart.Style{Show: true},
		},
		YAxis: chart.YAxis{
			Name:      "Temperature (°C)",
			NameStyle: chart.Style{Show: true},
			Style:     chart.Style{Show: true},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: series,
				Style: chart.Style{
					Show:        true,
					StrokeColor: chart.ColorBlue,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return f.Close()
}
