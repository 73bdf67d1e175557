package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type SMSSender interface {
	SendSMS(ctx context.Context, to, text string) error
}

type InfobipConfig struct {
	BaseURL string
	APIKey  string
	Sender  string
}

type InfobipSMS struct {
	cfg    InfobipConfig
	client *http.Client
}

func NewInfobipSMS(cfg InfobipConfig, client *http.Client) *InfobipSMS {
	if client == nil {
		client = http.DefaultClient
	}
	return &InfobipSMS{cfg: cfg, client: client}
}

type infobipDestination struct {
	To string `json:"to"`
}

type infobipMessage struct {
	Destinations []infobipDestination `json:"destinations"`
	From         string               `json:"from"`
	Text         string               `json:"text"`
}

type infobipRequest struct {
	Messages []infobipMessage `json:"messages"`
}

func (s *InfobipSMS) url() string {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return base + "/sms/2/text/advanced"
}

func (s *InfobipSMS) SendSMS(ctx context.Context, to, text string) error {
	if s.cfg.BaseURL == "" {
		return fmt.Errorf("sms provider is not configured")
	}

	payload, err := json.Marshal(infobipRequest{Messages: []infobipMessage{{
		Destinations: []infobipDestination{{To: to}},
		From:         s.cfg.Sender,
		Text:         text,
	}}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "App "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms to %s: %w", to, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}
	return nil
}
