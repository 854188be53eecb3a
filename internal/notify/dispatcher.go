package notify

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"flowAdsBack/internal/models"
)

// ErrInvalidPhone is returned for numbers that are not in E.164 form.
var ErrInvalidPhone = errors.New("notify: phone number must be in E.164 format")

// Logger provides minimal logging required by the dispatcher.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Alert is the live event pushed to admin dashboards after each dispatch.
type Alert struct {
	Kind    string    `json:"kind"`
	Phone   string    `json:"phone"`
	Message string    `json:"message"`
	Status  string    `json:"status"`
	SentAt  time.Time `json:"sent_at"`
}

// AlertPublisher fans alerts out to the dashboards of one role.
type AlertPublisher interface {
	PushRole(role string, v interface{})
}

// Pusher delivers app notifications to a device token.
type Pusher interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) (string, error)
}

// Dispatcher validates, sends and records SMS alerts.
type Dispatcher struct {
	sender   Sender
	outbox   Outbox
	alerts   AlertPublisher
	pusher   Pusher
	log      Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewDispatcher wires a dispatcher. alerts and pusher may be nil.
func NewDispatcher(sender Sender, outbox Outbox, alerts AlertPublisher, pusher Pusher, log Logger) *Dispatcher {
	if outbox == nil {
		outbox = NewMemoryOutbox()
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Dispatcher{
		sender:   sender,
		outbox:   outbox,
		alerts:   alerts,
		pusher:   pusher,
		log:      log,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Gateway names the SMS backend in use.
func (d *Dispatcher) Gateway() string { return d.sender.Name() }

// Send delivers body to phone. Gateway failures are reported through the
// returned Result with status error; only a malformed number is an error.
func (d *Dispatcher) Send(ctx context.Context, phone, body string) (Result, error) {
	if err := d.validate.Var(phone, "required,e164"); err != nil {
		return Result{}, ErrInvalidPhone
	}

	res, err := d.sender.Send(ctx, phone, body)
	if err != nil {
		d.log.Errorf("sms to %s via %s failed: %v", phone, d.sender.Name(), err)
		res = Result{
			Status:    StatusError,
			Message:   "Failed to send SMS: " + err.Error(),
			Recipient: phone,
		}
	} else if res.SID != "" {
		d.log.Infof("SMS sent with SID: %s", res.SID)
	}

	sentAt := d.now()
	if err := d.outbox.Record(ctx, SentMessage{
		Phone:   phone,
		Message: body,
		Status:  res.Status,
		Gateway: d.sender.Name(),
		SID:     res.SID,
		SentAt:  sentAt,
	}); err != nil {
		d.log.Errorf("record sms to %s: %v", phone, err)
	}

	// Recipients get their own events from the caller; the SMS log is admin-only.
	if d.alerts != nil {
		d.alerts.PushRole(models.RoleAdmin, Alert{Kind: "sms", Phone: phone, Message: body, Status: res.Status, SentAt: sentAt})
	}
	return res, nil
}

// Push forwards body to a device when a push backend is configured. It
// reports false when push is disabled.
func (d *Dispatcher) Push(ctx context.Context, token, title, body string) (bool, error) {
	if d.pusher == nil || token == "" {
		return false, nil
	}
	id, err := d.pusher.Push(ctx, token, title, body, map[string]string{"kind": "alert"})
	if err != nil {
		d.log.Errorf("push to device failed: %v", err)
		return false, err
	}
	d.log.Infof("push notification sent: %s", id)
	return true, nil
}

// Sent returns the most recent dispatch attempts, newest first.
func (d *Dispatcher) Sent(ctx context.Context, limit int) ([]SentMessage, error) {
	return d.outbox.Recent(ctx, limit)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
