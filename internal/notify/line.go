package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultLineEndpoint is the LINE Messaging API push endpoint.
const DefaultLineEndpoint = "https://api.line.me/v2/bot/message/push"

// LineSender pushes alert text to a single LINE recipient.  Token and
// recipient come from configuration; neither lives in code.
type LineSender struct {
	endpoint  string
	token     string
	recipient string
	client    *http.Client
}

func NewLineSender(endpoint, token, recipient string) *LineSender {
	if endpoint == "" {
		endpoint = DefaultLineEndpoint
	}
	return &LineSender{
		endpoint:  endpoint,
		token:     token,
		recipient: recipient,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type linePush struct {
	To       string        `json:"to"`
	Messages []lineMessage `json:"messages"`
}

type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (s *LineSender) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(linePush{
		To:       s.recipient,
		Messages: []lineMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("marshal line push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build line request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("line push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("line push: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
