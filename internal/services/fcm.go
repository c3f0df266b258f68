package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"smartbin-backend/internal/models"
)

// Topics that mobile clients subscribe to
const (
	TopicAdmins = "admins"
	TopicPublic = "public"
)

// Notifier pushes alerts and notices to mobile devices
type Notifier interface {
	SendBinAlert(ctx context.Context, alert models.Alert) error
	SendNotice(ctx context.Context, notice models.Notice) error
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	return newFCMService(option.WithCredentialsFile(credentialsFile))
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials
// This is useful for cloud deployments where you can't upload files easily
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFCMService(option.WithCredentialsJSON(credentialsJSON))
}

func newFCMService(opt option.ClientOption) (*FCMService, error) {
	ctx := context.Background()

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendBinAlert pushes a fill-level or sensor alert to the admins topic
func (s *FCMService) SendBinAlert(ctx context.Context, alert models.Alert) error {
	if s == nil || s.client == nil {
		return nil
	}

	message := &messaging.Message{
		Topic:        TopicAdmins,
		Notification: &messaging.Notification{Title: alertTitle(alert.Kind), Body: alert.Message},
		Data: map[string]string{
			"type":     "bin_alert",
			"alert_id": alert.ID,
			"bin_id":   alert.BinID,
			"kind":     string(alert.Kind),
			"level":    strconv.Itoa(alert.Level),
			"severity": alert.Severity,
		},
		Android: androidConfig(),
		APNS:    apnsConfig(),
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM alert sent for bin %s: %s", alert.BinID, response)
	return nil
}

// SendNotice pushes a newly published notice to the public topic
func (s *FCMService) SendNotice(ctx context.Context, notice models.Notice) error {
	if s == nil || s.client == nil {
		return nil
	}

	topic := TopicPublic
	if notice.TargetAudience == models.AudienceAdmins {
		topic = TopicAdmins
	}

	message := &messaging.Message{
		Topic:        topic,
		Notification: &messaging.Notification{Title: notice.Title, Body: notice.Content},
		Data: map[string]string{
			"type":      "notice",
			"notice_id": notice.ID,
			"priority":  notice.Priority,
		},
		Android: androidConfig(),
		APNS:    apnsConfig(),
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM notice sent to topic %s: %s", topic, response)
	return nil
}

// SendMulticast sends the same message to multiple tokens
func (s *FCMService) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if s == nil || s.client == nil || len(tokens) == 0 {
		return nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:    data,
		Android: androidConfig(),
		APNS:    apnsConfig(),
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	log.Printf("✅ Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)
	return nil
}

func alertTitle(kind models.AlertKind) string {
	switch kind {
	case models.AlertEmergency:
		return "🚨 Bin Emergency"
	case models.AlertCriticalFull:
		return "Bin Critically Full"
	default:
		return "Sensor Warning"
	}
}

func androidConfig() *messaging.AndroidConfig {
	return &messaging.AndroidConfig{Priority: "high"}
}

func apnsConfig() *messaging.APNSConfig {
	return &messaging.APNSConfig{
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{
				ContentAvailable: true,
				Sound:            "default",
			},
		},
	}
}
