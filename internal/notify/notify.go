// Package notify carries user-facing notifications out of the core without
// tying it to a presentation surface.
package notify

import (
	"sync"

	"github.com/hcissey0/fitplan/internal/utils"
)

// Notifier receives a titled, human-readable message meant for the user.
type Notifier interface {
	Notify(title, message string)
}

// LogNotifier surfaces notifications through the logger.
type LogNotifier struct {
	log *utils.Logger
}

func NewLogNotifier(log *utils.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(title, message string) {
	n.log.Warn("%s: %s", title, message)
}

// Notification is one recorded Notify call.
type Notification struct {
	Title   string
	Message string
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu   sync.Mutex
	Sent []Notification
}

func (r *Recorder) Notify(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, Notification{Title: title, Message: message})
}

// Last returns the most recent notification, or nil.
func (r *Recorder) Last() *Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Sent) == 0 {
		return nil
	}
	n := r.Sent[len(r.Sent)-1]
	return &n
}
