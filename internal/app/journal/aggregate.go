package journal

import (
	"errors"

	"github.com/PabloGalante/mindecho/internal/domain"
)

// ErrInsufficientData means the history is too short to draw a trend line.
var ErrInsufficientData = errors.New("chronicle more reflections to see trends")

// Trend canvas geometry, in abstract drawing units.
const (
	TrendWidth   = 400.0
	TrendHeight  = 160.0
	TrendPadding = 20.0
)

// Point is one vertex of the trend polyline. Y grows downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Trend struct {
	Scores []float64 `json:"scores"`
	Points []Point   `json:"points"`
}

// ScoreTrend maps the EchoScores of entries, in order, onto the trend canvas.
// It needs at least two entries.
func ScoreTrend(entries []domain.JournalEntry) (Trend, error) {
	n := len(entries)
	if n < 2 {
		return Trend{}, ErrInsufficientData
	}

	innerW := TrendWidth - 2*TrendPadding
	innerH := TrendHeight - 2*TrendPadding

	t := Trend{
		Scores: make([]float64, 0, n),
		Points: make([]Point, 0, n),
	}
	for i, e := range entries {
		score := e.Insight.EchoScore
		t.Scores = append(t.Scores, score)
		t.Points = append(t.Points, Point{
			X: TrendPadding + float64(i)*innerW/float64(n-1),
			Y: TrendHeight - TrendPadding - score/domain.MaxEchoScore*innerH,
		})
	}
	return t, nil
}

// PatternBar is one row of the pattern histogram.
type PatternBar struct {
	Pattern string  `json:"pattern"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // relative to the most frequent pattern
}

type Frequency struct {
	Bars     []PatternBar `json:"bars"`
	MaxCount int          `json:"max_count"`
}

// PatternFrequency counts pattern labels across entries. Bars keep the order
// in which each label first appeared.
func PatternFrequency(entries []domain.JournalEntry) Frequency {
	index := make(map[string]int)
	var f Frequency

	for _, e := range entries {
		p := e.Insight.Pattern
		i, seen := index[p]
		if !seen {
			i = len(f.Bars)
			index[p] = i
			f.Bars = append(f.Bars, PatternBar{Pattern: p})
		}
		f.Bars[i].Count++
		if f.Bars[i].Count > f.MaxCount {
			f.MaxCount = f.Bars[i].Count
		}
	}

	for i := range f.Bars {
		f.Bars[i].Percent = float64(f.Bars[i].Count) / float64(f.MaxCount) * 100
	}
	return f
}

// Counts returns the frequency as a label -> occurrences map.
func (f Frequency) Counts() map[string]int {
	out := make(map[string]int, len(f.Bars))
	for _, b := range f.Bars {
		out[b.Pattern] = b.Count
	}
	return out
}
