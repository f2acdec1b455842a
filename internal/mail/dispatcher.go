// AngelaMos | 2026
// dispatcher.go

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

const sendTimeout = 10 * time.Second

// Dispatcher queues outgoing mail and delivers it from background
// workers. Submit never blocks and delivery failures never reach the
// caller; a full queue drops the message with a warning.
type Dispatcher struct {
	queue  chan Message
	sender Sender
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 1
	}

	d := &Dispatcher{
		queue:  make(chan Message, queueSize),
		sender: sender,
	}

	for range workers {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

func (d *Dispatcher) Submit(msg Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		slog.Warn("mail queue full, dropping message", "to", msg.To)
		return false
	}
}

// Close stops accepting mail and waits for queued messages to drain.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			slog.Error("send mail failed",
				"to", msg.To,
				"subject", msg.Subject,
				"error", err,
			)
		}
		cancel()
	}
}

// VerificationMailer builds and submits the account-verification email.
// It satisfies the auth service's fire-and-forget mailer contract.
type VerificationMailer struct {
	dispatcher *Dispatcher
	siteURL    string
}

func NewVerificationMailer(
	dispatcher *Dispatcher,
	siteURL string,
) *VerificationMailer {
	return &VerificationMailer{dispatcher: dispatcher, siteURL: siteURL}
}

func (m *VerificationMailer) SendVerification(email, fullName, token string) {
	verificationURL := fmt.Sprintf(
		"%s/v1/auth/verify-email/%s",
		m.siteURL,
		token,
	)

	m.dispatcher.Submit(Message{
		To:      email,
		Subject: "Verify your email",
		Body: fmt.Sprintf(
			"Hi %s, please verify your email by clicking the link: %s",
			fullName,
			verificationURL,
		),
	})
}
