package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
)

func testEvent(t domain.EventType) domain.FormEvent {
	return domain.FormEvent{
		Type:          t,
		FormID:        "6f1c2a8e-1d8b-4f57-9c1e-3d2f4b5a6c7d",
		EmployeeName:  "John Doe",
		RequestorName: "Jane Smith",
		ServiceWeek:   domain.ServiceWeek{Start: "03/20/2024", End: "03/24/2024"},
		Status:        domain.StatusPending,
		TotalHours:    9,
		OccurredAt:    time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC),
	}
}

type fakeChannel struct {
	mu        sync.Mutex
	published []amqp.Publishing
	keys      []string
	inFlight  int
	maxFlight int
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxFlight {
		c.maxFlight = c.inFlight
	}
	c.mu.Unlock()

	time.Sleep(time.Millisecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	c.published = append(c.published, msg)
	c.keys = append(c.keys, key)
	return nil
}

func TestAMQPPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, queue: "form_events", timeout: time.Second}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Publish(context.Background(), testEvent(domain.EventFormSubmitted)); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(ch.published) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(ch.published))
	}
	if ch.maxFlight != 1 {
		t.Fatalf("publishes overlapped on the channel")
	}
	if ch.keys[0] != "form_events" {
		t.Fatalf("unexpected routing key %q", ch.keys[0])
	}

	msg := ch.published[0]
	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected publishing %+v", msg)
	}
	var ev domain.FormEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		t.Fatalf("body is not a form event: %v", err)
	}
	if ev.FormID != testEvent("").FormID || ev.TotalHours != 9 {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func render(t *testing.T, msg *mail.Msg) string {
	t.Helper()

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("failed to write message: %v", err)
	}
	return buf.String()
}

func TestComposeSubmitted(t *testing.T) {
	c := &Composer{
		From:         "forms@example.com",
		Recipients:   []string{"manager@example.com", "office@example.com"},
		DashboardURL: "https://dashboard.example.com",
	}

	msg, err := c.Compose(testEvent(domain.EventFormSubmitted))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	to, err := msg.GetRecipients()
	if err != nil || len(to) != 2 {
		t.Fatalf("unexpected recipients %v (%v)", to, err)
	}
	subject := msg.GetGenHeader(mail.HeaderSubject)
	if len(subject) != 1 || subject[0] != "Work hours form submitted: John Doe (03/20/2024 ~ 03/24/2024)" {
		t.Fatalf("unexpected subject %v", subject)
	}

	out := render(t, msg)
	for _, want := range []string{"John Doe", "9.00", "dashboard.example.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("message does not mention %q", want)
		}
	}
}

func TestComposeStatusChanged(t *testing.T) {
	c := &Composer{From: "forms@example.com", Recipients: []string{"manager@example.com"}}

	ev := testEvent(domain.EventStatusChanged)
	ev.PreviousStatus = domain.StatusPending
	ev.Status = domain.StatusApproved

	msg, err := c.Compose(ev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	subject := msg.GetGenHeader(mail.HeaderSubject)
	if len(subject) != 1 || !strings.HasPrefix(subject[0], "Work hours form approved") {
		t.Fatalf("unexpected subject %v", subject)
	}
	if out := render(t, msg); strings.Contains(out, "Open the dashboard") {
		t.Errorf("dashboard link rendered without a dashboard url")
	}
}

func TestComposeErrors(t *testing.T) {
	c := &Composer{From: "forms@example.com", Recipients: []string{"manager@example.com"}}
	if _, err := c.Compose(testEvent("form_exploded")); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}

	c.Recipients = nil
	if _, err := c.Compose(testEvent(domain.EventFormSubmitted)); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}

	c = &Composer{From: "not an address", Recipients: []string{"manager@example.com"}}
	if _, err := c.Compose(testEvent(domain.EventFormSubmitted)); err == nil {
		t.Fatalf("expected an invalid sender error")
	}
}

type fakeSender struct {
	sent []*mail.Msg
	err  error
}

func (s *fakeSender) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, messages...)
	return nil
}

func TestWorkerHandle(t *testing.T) {
	sender := &fakeSender{}
	w := &Worker{
		Composer: &Composer{From: "forms@example.com", Recipients: []string{"manager@example.com"}},
		Sender:   sender,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	ctx := context.Background()

	body, _ := json.Marshal(testEvent(domain.EventFormSubmitted))
	if got := w.Handle(ctx, body); got != Ack {
		t.Fatalf("expected ack, got %v", got)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one e-mail, got %d", len(sender.sent))
	}

	if got := w.Handle(ctx, []byte("{not json")); got != Reject {
		t.Fatalf("expected reject for a malformed body, got %v", got)
	}

	unknown, _ := json.Marshal(testEvent("form_exploded"))
	if got := w.Handle(ctx, unknown); got != Reject {
		t.Fatalf("expected reject for an unknown event, got %v", got)
	}

	sender.err = errors.New("smtp: 421 try again later")
	if got := w.Handle(ctx, body); got != Requeue {
		t.Fatalf("expected requeue on send failure, got %v", got)
	}
}
