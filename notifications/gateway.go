package notifications

import (
	"context"
	"errors"
	"log"
	"time"

	"voyago/errs"
	"voyago/models"

	"github.com/google/uuid"
)

// Sender delivers one push message to a device token.
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// LivePusher fans a stored notification out to the user's open sockets.
type LivePusher interface {
	Push(userID string, n models.Notification)
}

type deviceRegistry interface {
	Get(ctx context.Context, userID string) (models.UserDevice, error)
	CreateDefault(ctx context.Context, userID string) error
}

type inboxWriter interface {
	Save(ctx context.Context, n models.Notification) error
}

// Gateway is the single send path for user notifications: it resolves the
// device, honors the opt-out, pushes, and on a successful push records the
// inbox copy.
type Gateway struct {
	devices deviceRegistry
	inbox   inboxWriter
	sender  Sender
	live    LivePusher
}

func NewGateway(devices deviceRegistry, inbox inboxWriter, sender Sender, live LivePusher) *Gateway {
	return &Gateway{devices: devices, inbox: inbox, sender: sender, live: live}
}

// NopSender drops pushes; stands in when FCM credentials are absent so
// inbox records and live fan-out still work.
type NopSender struct{}

func (NopSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	return nil
}

// Message is one notification to deliver.
type Message struct {
	UserID    string
	Title     string
	Body      string
	Type      string
	TripID    string
	TripTitle string
}

// NotifyUser pushes the message to the user's device. Users without a device
// record get one created with defaults and are skipped this round. A missing
// token or a disabled setting skips silently; a push failure comes back as a
// delivery error the caller may log and move past.
func (g *Gateway) NotifyUser(ctx context.Context, msg Message) error {
	device, err := g.devices.Get(ctx, msg.UserID)
	if errors.Is(err, errs.ErrNotFound) {
		if err := g.devices.CreateDefault(ctx, msg.UserID); err != nil {
			log.Printf("creating default device for %s: %v", msg.UserID, err)
		}
		return nil
	}
	if err != nil {
		return err
	}

	if device.FcmToken == "" || !device.NotificationsEnabled {
		return nil
	}

	data := map[string]string{"type": msg.Type}
	if msg.TripID != "" {
		data["tripId"] = msg.TripID
	}
	if err := g.sender.Send(ctx, device.FcmToken, msg.Title, msg.Body, data); err != nil {
		return errs.Delivery(msg.UserID, err)
	}

	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    msg.UserID,
		Title:     msg.Title,
		Message:   msg.Body,
		Type:      msg.Type,
		Timestamp: time.Now().UnixMilli(),
		TripID:    msg.TripID,
		TripTitle: msg.TripTitle,
	}
	if err := g.inbox.Save(ctx, n); err != nil {
		log.Printf("saving inbox copy for %s: %v", msg.UserID, err)
		return nil
	}
	if g.live != nil {
		g.live.Push(msg.UserID, n)
	}
	return nil
}
