package notify

import "time"

// BrokenLinkEvent is published for every broken link found by a scan.
// Downstream consumers (e.g. issue creators, dashboards) subscribe to the
// configured subject.
type BrokenLinkEvent struct {
	RunID     string    `json:"run_id"`
	File      string    `json:"file"`
	Line      int       `json:"line,omitempty"`
	Target    string    `json:"target"`
	Resolved  string    `json:"resolved,omitempty"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
