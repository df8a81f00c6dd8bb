package authcore

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Audit action tags. Every security event the engine emits carries
// exactly one of these.
const (
	ActionLogin             = "login"
	ActionLogout            = "logout"
	ActionRegister          = "register"
	ActionPasswordReset     = "password_reset"
	ActionEmailVerification = "email_verification"
	ActionFailedLogin       = "failed_login"
)

// AuditEvent describes one security event emitted by the engine. Email
// and UserID may be empty depending on how far the flow progressed before
// the event fired.
type AuditEvent struct {
	Timestamp time.Time         `json:"ts"`
	Action    string            `json:"action"`
	Email     string            `json:"email,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Success   bool              `json:"success"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink consumes audit events. Emit runs on the dispatcher goroutine;
// a slow sink backs up the dispatcher buffer, it never blocks request
// handling.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

// Emit implements AuditSink.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a channel, dropping when it is full.
// Useful in tests and for custom fan-out.
type ChannelSink struct {
	C chan AuditEvent
}

// NewChannelSink returns a ChannelSink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{C: make(chan AuditEvent, buffer)}
}

// Emit implements AuditSink.
func (s *ChannelSink) Emit(_ context.Context, event AuditEvent) {
	select {
	case s.C <- event:
	default:
	}
}

// JSONWriterSink writes one JSON object per line to an io.Writer.
type JSONWriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONWriterSink returns a sink encoding events to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{enc: json.NewEncoder(w)}
}

// Emit implements AuditSink. Encoding errors are dropped; audit output is
// best-effort telemetry.
func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(event)
}

// StoreSink persists events as SecurityLog rows. A failed append is
// accepted telemetry loss; it never propagates back into the flow that
// emitted the event.
type StoreSink struct {
	store SecurityLogStore
}

// NewStoreSink returns a sink appending to store.
func NewStoreSink(store SecurityLogStore) *StoreSink {
	return &StoreSink{store: store}
}

// Emit implements AuditSink.
func (s *StoreSink) Emit(ctx context.Context, event AuditEvent) {
	entry := &SecurityLog{
		ID:        uuid.NewString(),
		Action:    event.Action,
		Email:     event.Email,
		UserID:    event.UserID,
		IP:        event.IP,
		UserAgent: event.UserAgent,
		Metadata:  event.Metadata,
		Success:   event.Success,
		CreatedAt: event.Timestamp,
	}
	_ = s.store.Append(ctx, entry)
}
