package recorder

import "time"

// ChartBuild is one journal entry per chart request served.
type ChartBuild struct {
	RequestID  string
	Source     string // "http", "ws", "multi" or "refresh"
	Ticker     string
	Period     string
	Interval   string
	Compare    []string
	Indicators []string
	Bars       int
	Overlays   int
	Regions    int
	Err        string
	Elapsed    time.Duration
}

// PatternAlert records an engulfing pattern found by the watchlist scan.
type PatternAlert struct {
	Symbol  string
	BarTime time.Time
	Flag    int // +100 bullish, -100 bearish
	Close   float64
	Sent    bool
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordChartBuild(evt *ChartBuild) error
	RecordPatternAlert(evt *PatternAlert) error
	// AlertRecorded reports whether an alert for this symbol and bar was
	// already delivered.
	AlertRecorded(symbol string, barTime time.Time) (bool, error)
	Close() error
}
