package recorder

// CycleEvent holds the audit record for one published cycle. The pipeline
// only ever writes these; nothing reads them back, so restarting the process
// with or without history behaves identically.
type CycleEvent struct {
	WindowMinutes int
	IsFallback    bool
	ItemCount     int
	TopPoolID     string
	TopPair       string
	TopScore      float64
	TopVolumeUSD  float64
	MessageID     int
}

// Recorder persists cycle history for offline analysis.
type Recorder interface {
	RecordCycle(evt *CycleEvent) error
	Close() error
}
