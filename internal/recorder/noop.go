package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBoard(_ *BoardSnapshot) error      { return nil }
func (n *NoopRecorder) RecordFreshness(_ *FreshnessEvent) error { return nil }
func (n *NoopRecorder) Close() error                            { return nil }
