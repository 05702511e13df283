package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Outcome int

const (
	Ack Outcome = iota
	Reject
	Requeue
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Reject:
		return "reject"
	default:
		return "requeue"
	}
}

// Worker handles form event deliveries. Malformed events are rejected, send failures requeued.
type Worker struct {
	Composer *Composer
	Sender   Sender
	Logger   *slog.Logger
}

func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var ev domain.FormEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		w.Logger.Error("failed to decode form event", "error", err)
		return Reject
	}

	msg, err := w.Composer.Compose(ev)
	if err != nil {
		w.Logger.Error("failed to compose e-mail", "type", ev.Type, "formId", ev.FormID, "error", err)
		return Reject
	}

	if err := w.Sender.DialAndSendWithContext(ctx, msg); err != nil {
		w.Logger.Error("failed to send e-mail", "type", ev.Type, "formId", ev.FormID, "error", err)
		return Requeue
	}

	w.Logger.Info("sent e-mail", "type", ev.Type, "formId", ev.FormID)
	return Ack
}
