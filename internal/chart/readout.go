package chart

import (
	"errors"
	"fmt"
	"math"
	"time"

	"StockView/internal/model"
)

// ErrNoBar is returned when the hovered time matches no bar.
var ErrNoBar = errors.New("no bar at time")

// Readout is the OHLC summary shown for the hovered bar.
type Readout struct {
	Time  time.Time `json:"t"`
	Open  float64   `json:"o"`
	High  float64   `json:"h"`
	Low   float64   `json:"l"`
	Close float64   `json:"c"`
	Text  string    `json:"text"`
	Color string    `json:"color"`
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// NewReadout summarises the bar of s at t. The series is whatever the
// caller is currently displaying.
func NewReadout(s model.PriceSeries, t time.Time) (Readout, error) {
	for _, b := range s.Bars {
		if !b.Time.Equal(t) {
			continue
		}
		r := Readout{
			Time:  b.Time,
			Open:  round2(b.Open),
			High:  round2(b.High),
			Low:   round2(b.Low),
			Close: round2(b.Close),
			Color: "red",
		}
		if b.Close >= b.Open {
			r.Color = "forestgreen"
		}
		r.Text = fmt.Sprintf("O-%.2f H-%.2f L-%.2f C-%.2f", r.Open, r.High, r.Low, r.Close)
		return r, nil
	}
	return Readout{}, fmt.Errorf("%w %s", ErrNoBar, t.Format(time.RFC3339))
}
