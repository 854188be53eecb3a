package notify

import (
	"context"
)

// Result statuses reported by senders.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of one SMS send.
type Result struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
	SID       string `json:"sid,omitempty"`
}

// Sender delivers a text to an E.164 phone number.
type Sender interface {
	Send(ctx context.Context, phone, body string) (Result, error)
	Name() string
}

// SimulatedSender accepts every message without contacting a gateway. It is
// used when no gateway credentials are configured.
type SimulatedSender struct {
	Log Logger
}

func (SimulatedSender) Name() string { return "simulated" }

func (s SimulatedSender) Send(_ context.Context, phone, body string) (Result, error) {
	if s.Log != nil {
		s.Log.Infof("SMS ALERT to %s: %s (SIMULATED - gateway credentials not configured)", phone, body)
	}
	return Result{
		Status:    StatusSuccess,
		Message:   "SMS alert sent successfully (simulated - Twilio not configured)",
		Recipient: phone,
	}, nil
}
