package recorder

import "time"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordChartBuild(_ *ChartBuild) error              { return nil }
func (n *NoopRecorder) RecordPatternAlert(_ *PatternAlert) error          { return nil }
func (n *NoopRecorder) AlertRecorded(_ string, _ time.Time) (bool, error) { return false, nil }
func (n *NoopRecorder) Close() error                                      { return nil }
