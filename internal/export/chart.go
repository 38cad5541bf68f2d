package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoStandings is returned when there is nothing to chart.
var ErrNoStandings = errors.New("no standings to chart")

const (
	barWidth   = 50
	barSpacing = 30
	chartPad   = 120
)

var (
	barColor    = drawing.ColorFromHex("3b6ea5")
	leaderColor = drawing.ColorFromHex("e0a526")
)

// WritePNG renders total points per team as a bar chart in standings order.
// The leader's bar is highlighted.
func WritePNG(w io.Writer, snap Snapshot) error {
	if len(snap.Standings) == 0 {
		return ErrNoStandings
	}

	bars := make([]chart.Value, len(snap.Standings))
	top := 0.0
	for i, s := range snap.Standings {
		color := barColor
		if i == 0 {
			color = leaderColor
		}
		bars[i] = chart.Value{
			Label: s.Team,
			Value: s.TotalPoints,
			Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		}
		if s.TotalPoints > top {
			top = s.TotalPoints
		}
	}
	if top == 0 {
		top = 1
	}

	title := snap.Name
	if title == "" {
		title = "Standings"
	}
	graph := chart.BarChart{
		Title:      fmt.Sprintf("%s (%s)", title, kindLabel(snap.Kind)),
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      len(bars)*(barWidth+barSpacing) + chartPad,
		Height:     480,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	if graph.Width < 400 {
		graph.Width = 400
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
