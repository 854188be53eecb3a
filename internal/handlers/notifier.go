package handlers

import (
	"context"
	"strconv"
	"time"

	"flowAdsBack/internal/models"
	"flowAdsBack/internal/notify"
)

// UserDirectory resolves the phone number of a record owner.
type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
}

// LiveFeed pushes events to connected dashboards.
type LiveFeed interface {
	Push(userID int64, payload interface{})
	PushRole(role string, payload interface{})
}

// Notifier sends best-effort SMS alerts about record changes to the
// owning user and mirrors them to that user's live feed. Failures are
// logged and never fail the request.
type Notifier struct {
	Dispatcher *notify.Dispatcher
	Users      UserDirectory
	Live       LiveFeed
	Log        Logger
}

func (n *Notifier) enabled() bool {
	return n != nil && n.Dispatcher != nil && n.Users != nil
}

// NotifyUser texts the user with the message built from their record.
func (n *Notifier) NotifyUser(ctx context.Context, kind string, userID int64, build func(u models.User) string) {
	if !n.enabled() {
		return
	}
	u, err := n.Users.GetUser(ctx, userID)
	if err != nil {
		n.errorf("alert lookup for user %d: %v", userID, err)
		return
	}
	body := build(u)
	if n.Live != nil {
		n.Live.Push(userID, notify.Alert{Kind: kind, Message: body, Status: notify.StatusSuccess, SentAt: time.Now()})
	}
	phone := notify.NormalizePhone(u.Phone)
	if phone == "" {
		return
	}
	res, err := n.Dispatcher.Send(ctx, phone, body)
	if err != nil {
		n.errorf("alert to user %d: %v", userID, err)
		return
	}
	if res.Status != notify.StatusSuccess {
		n.errorf("alert to user %d: %s", userID, res.Message)
	}
}

// NotifyLedgerUser is NotifyUser for the string user ids of the ledger.
// Ids that are not fleet user ids are skipped.
func (n *Notifier) NotifyLedgerUser(ctx context.Context, kind, userID string, build func(u models.User) string) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil || id <= 0 {
		return
	}
	n.NotifyUser(ctx, kind, id, build)
}

// PushRole forwards an event to every dashboard of a role.
func (n *Notifier) PushRole(role string, payload interface{}) {
	if n == nil || n.Live == nil {
		return
	}
	n.Live.PushRole(role, payload)
}

func (n *Notifier) errorf(format string, args ...interface{}) {
	if n.Log != nil {
		n.Log.Errorf(format, args...)
	}
}
