package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"amora_server/models"
)

const expoPushURL = "https://exp.host/--/api/v2/push/send"

// NotificationService sends push notifications through Expo. It implements
// Notifier; callers treat delivery as best-effort.
type NotificationService struct {
	HTTPClient *http.Client
	URL        string
}

// NewNotificationService builds a push sender with a bounded client.
func NewNotificationService() *NotificationService {
	return &NotificationService{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		URL:        expoPushURL,
	}
}

type expoPushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

func notificationCopy(kind string, payload map[string]string) (string, string) {
	switch kind {
	case models.NotificationKindLike:
		return "Someone likes you 💗", "Open the app to see who it is"
	case models.NotificationKindSuperlike:
		return "You got a Super Like ⭐", "Someone really wants to meet you"
	case models.NotificationKindMatch:
		return "It's a match! 🎉", "You and someone special liked each other"
	case models.NotificationKindMessage:
		return "New message 💬", payload["preview"]
	default:
		return "Amora", ""
	}
}

// Send delivers one push notification. Non-2xx responses are returned as
// errors for the caller to log.
func (ns *NotificationService) Send(ctx context.Context, pushToken, kind string, payload map[string]string) error {
	title, body := notificationCopy(kind, payload)
	message := expoPushMessage{
		To:    pushToken,
		Title: title,
		Body:  body,
		Data:  payload,
		Sound: "default",
	}

	encoded, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ns.URL, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := ns.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}
	return nil
}
