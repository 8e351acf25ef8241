package contact

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-siteform/pkg/logging"
)

// Submission is an accepted, validated contact request.
type Submission struct {
	ID         string            `json:"id"`
	Values     map[string]string `json:"values"`
	ReceivedAt time.Time         `json:"receivedAt"`
	RemoteAddr string            `json:"remoteAddr,omitempty"`
}

// Names returns the submitted field names in sorted order.
func (s Submission) Names() []string {
	names := make([]string, 0, len(s.Values))
	for name := range s.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sink delivers accepted submissions (mail, queue, storage...).
type Sink interface {
	Deliver(ctx context.Context, submission Submission) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, submission Submission) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, submission Submission) error {
	return f(ctx, submission)
}

// LogSink records submissions in the log. Field values stay out of the log.
type LogSink struct {
	Logger logging.Logger
}

// Deliver logs the submission id and field names.
func (s LogSink) Deliver(ctx context.Context, submission Submission) error {
	logger := s.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger.Info(ctx, "contact submission received",
		"submission_id", submission.ID,
		"fields", submission.Names(),
		"remote_addr", submission.RemoteAddr,
	)
	return nil
}

// MemorySink keeps submissions in memory.
type MemorySink struct {
	mu          sync.Mutex
	submissions []Submission
}

// Deliver stores the submission.
func (s *MemorySink) Deliver(_ context.Context, submission Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, submission)
	return nil
}

// Submissions returns a copy of the stored submissions.
func (s *MemorySink) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}
