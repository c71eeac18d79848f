package uploader

// Status is the lifecycle state of one file in a batch.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event names a batch lifecycle point.
type Event string

const (
	// EventStart fires once, after items are created and before any upload.
	EventStart Event = "start"

	// EventProgress fires once per file, after it settles.
	EventProgress Event = "progress"

	// EventEnd fires once, after every file has settled.
	EventEnd Event = "end"
)

// Item is the status record of one file in a batch.
type Item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Snapshot is a copy of a batch's items taken when an event was emitted.
type Snapshot struct {
	Batch string `json:"batch"`
	Event Event  `json:"event"`
	Items []Item `json:"items"`
}

// Settled returns the number of items no longer pending.
func (s Snapshot) Settled() int {
	n := 0
	for _, it := range s.Items {
		if it.Status != StatusPending {
			n++
		}
	}
	return n
}

// Failed returns the items whose upload failed, in batch order.
func (s Snapshot) Failed() []Item {
	var out []Item
	for _, it := range s.Items {
		if it.Status == StatusError {
			out = append(out, it)
		}
	}
	return out
}

// URLs returns the URLs of completed items, in batch order.
func (s Snapshot) URLs() []string {
	var out []string
	for _, it := range s.Items {
		if it.Status == StatusDone {
			out = append(out, it.URL)
		}
	}
	return out
}
