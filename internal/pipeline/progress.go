package pipeline

import (
	"time"

	"polyc/internal/diag"
)

// Status captures progress state within a phase.
type Status string

const (
	// StatusQueued indicates the request is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the phase is currently running.
	StatusWorking Status = "working"
	// StatusDone indicates the phase finished.
	StatusDone Status = "done"
	// StatusError indicates the phase failed.
	StatusError Status = "error"
)

// Event reports progress for one compile request.
type Event struct {
	// Label identifies the request, usually the input file path.
	Label   string
	Phase   diag.Phase
	Status  Status
	Attempt int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
