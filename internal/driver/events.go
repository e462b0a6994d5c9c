package driver

// Status is the per-file progress state reported to a Sink.
type Status uint8

const (
	StatusQueued Status = iota
	StatusLexing
	StatusCached // served from the token cache
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusLexing:
		return "lexing"
	case StatusCached:
		return "cached"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Finished reports whether no further events follow for the file.
func (s Status) Finished() bool {
	return s == StatusCached || s == StatusDone || s == StatusError
}

// Event is one progress notification. File is the path as listed by
// TokenizeDir; Tokens is set once the file is finished.
type Event struct {
	File   string
	Status Status
	Tokens int
}

// Sink receives progress events. It is called from worker goroutines and
// must be safe for concurrent use.
type Sink func(Event)

func (s Sink) emit(file string, status Status, tokens int) {
	if s != nil {
		s(Event{File: file, Status: status, Tokens: tokens})
	}
}
