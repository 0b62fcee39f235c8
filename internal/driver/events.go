package driver

import "time"

// Stage describes a step of a file's analysis.
type Stage string

const (
	// StageRead loads the file.
	StageRead Stage = "read"
	// StageTokenize builds the token stream.
	StageTokenize Stage = "tokenize"
	// StageResolve pairs brackets and builds scopes.
	StageResolve Stage = "resolve"
	// StageSniff runs the rules.
	StageSniff Stage = "sniff"
	// StageCache serves a stored result.
	StageCache Stage = "cache"
)

// Progress captures progress state within a stage.
type Progress string

const (
	// ProgressQueued indicates the file is waiting for a worker.
	ProgressQueued Progress = "queued"
	// ProgressWorking indicates the stage is running.
	ProgressWorking Progress = "working"
	// ProgressDone indicates the file finished.
	ProgressDone Progress = "done"
	// ProgressError indicates the file could not be analyzed.
	ProgressError Progress = "error"
)

// Event reports progress for a file.
type Event struct {
	File     string
	Stage    Stage
	Progress Progress
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe
// for concurrent use; workers emit without coordination.
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

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
