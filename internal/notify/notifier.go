package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/yungbote/roadmap-client/internal/logger"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notifier is the user-feedback sink. Implementations own rendering; the
// stores only fire deterministic texts per operation outcome.
type Notifier interface {
	Success(text string)
	Error(text string)
}

type logNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{log: log.With("component", "Notifier")}
}

func (n *logNotifier) Success(text string) {
	n.log.Info("Notification", "kind", KindSuccess, "text", text)
}

func (n *logNotifier) Error(text string) {
	n.log.Warn("Notification", "kind", KindError, "text", text)
}

type writerNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier renders notifications as plain lines, for CLI use.
func NewWriterNotifier(w io.Writer) Notifier {
	return &writerNotifier{w: w}
}

func (n *writerNotifier) Success(text string) { n.write(KindSuccess, text) }
func (n *writerNotifier) Error(text string)   { n.write(KindError, text) }

func (n *writerNotifier) write(kind Kind, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", kind, text)
}

// Event is one recorded notification.
type Event struct {
	Kind Kind
	Text string
}

// Recorder collects notifications for assertions in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Success(text string) { r.append(KindSuccess, text) }
func (r *Recorder) Error(text string)   { r.append(KindError, text) }

func (r *Recorder) append(kind Kind, text string) {
	r.mu.Lock()
	r.events = append(r.events, Event{Kind: kind, Text: text})
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
