// AngelaMos | 2026
// dispatcher_test.go

package mail

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func TestDispatcherDeliversQueuedMail(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 8, 2)

	assert.True(t, d.Submit(Message{To: "a@example.com", Subject: "one"}))
	assert.True(t, d.Submit(Message{To: "b@example.com", Subject: "two"}))

	d.Close()

	assert.Len(t, sender.messages(), 2)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	// No workers drain the queue until Close, so a capacity-1 queue
	// rejects the second message.
	block := make(chan struct{})
	sender := &recordingSender{}
	d := NewDispatcher(blockingSender{block: block, inner: sender}, 1, 1)

	d.Submit(Message{To: "first@example.com"})
	d.Submit(Message{To: "second@example.com"})
	accepted := d.Submit(Message{To: "third@example.com"})
	assert.False(t, accepted)

	close(block)
	d.Close()
}

type blockingSender struct {
	block chan struct{}
	inner Sender
}

func (s blockingSender) Send(ctx context.Context, msg Message) error {
	<-s.block
	return s.inner.Send(ctx, msg)
}

func TestDispatcherSwallowsSendFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, 8, 1)

	assert.True(t, d.Submit(Message{To: "a@example.com"}))
	d.Close()
}

func TestVerificationMailerBuildsLink(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 8, 1)
	mailer := NewVerificationMailer(d, "https://books.example.com")

	mailer.SendVerification("jane@example.com", "Jane", "tok-123")
	d.Close()

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "jane@example.com", msgs[0].To)
	assert.Equal(t, "Verify your email", msgs[0].Subject)
	assert.Contains(
		t,
		msgs[0].Body,
		"https://books.example.com/v1/auth/verify-email/tok-123",
	)
}
