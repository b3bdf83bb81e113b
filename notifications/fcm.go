package notifications

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

// FcmSender pushes through Firebase Cloud Messaging.
type FcmSender struct {
	client *messaging.Client
}

// NewFcmSender initializes the Firebase app from a service-account file.
func NewFcmSender(ctx context.Context, credentialsFile string) (*FcmSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return &FcmSender{client: client}, nil
}

func (s *FcmSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	_, err := s.client.Send(ctx, msg)
	if err == nil {
		return nil
	}
	if messaging.IsRegistrationTokenNotRegistered(err) {
		// Stale token; the app re-registers on next launch.
		log.Printf("fcm token for message to %s no longer registered", token[:min(8, len(token))])
		return fmt.Errorf("token not registered: %w", err)
	}
	return fmt.Errorf("fcm send: %w", err)
}
