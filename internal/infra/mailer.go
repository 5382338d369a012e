package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Vovarama1992/cinecampaign/internal/metrics"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
)

const mailAttempts = 3

type HTTPMailer struct {
	apiKey string
	url    string
	from   string
	client *http.Client
	log    *logger.ZapLogger
	// pause between attempts; tests shorten it
	backoff time.Duration
}

func NewHTTPMailer(apiKey, url, from string, log *logger.ZapLogger) *HTTPMailer {
	return &HTTPMailer{
		apiKey:  apiKey,
		url:     url,
		from:    from,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
		backoff: time.Second,
	}
}

// sanitize drops broken UTF-8 from user supplied text.
func sanitize(s string) string {
	return strings.ToValidUTF8(s, "")
}

type mailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type mailResponse struct {
	ID string `json:"id"`
}

func (m *HTTPMailer) Send(ctx context.Context, e ports.Email) error {
	if len(e.To) == 0 {
		return nil
	}

	j, err := json.Marshal(mailRequest{
		From:    m.from,
		To:      e.To,
		Subject: sanitize(e.Subject),
		Text:    sanitize(e.Text),
	})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= mailAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				metrics.EmailsSent.WithLabelValues("failed").Inc()
				return ctx.Err()
			case <-time.After(m.backoff):
			}
		}

		id, err := m.post(ctx, j)
		if err != nil {
			lastErr = err
			m.log.Log(logger.LogEntry{
				Level:   "warn",
				Message: "[MAIL][RETRY]",
				Fields:  map[string]any{"attempt": attempt, "subject": e.Subject},
				Error:   err,
			})
			continue
		}

		metrics.EmailsSent.WithLabelValues("sent").Inc()
		m.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "[MAIL][SENT]",
			Fields:  map[string]any{"id": id, "to": strings.Join(e.To, ","), "subject": e.Subject},
		})
		return nil
	}

	metrics.EmailsSent.WithLabelValues("failed").Inc()
	return fmt.Errorf("mail failed after %d attempts: %w", mailAttempts, lastErr)
}

func (m *HTTPMailer) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("mail api status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var out mailResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode mail response: %w", err)
	}
	return out.ID, nil
}

// LogMailer stands in when no API key is configured.
type LogMailer struct {
	log *logger.ZapLogger
}

func NewLogMailer(log *logger.ZapLogger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, e ports.Email) error {
	metrics.EmailsSent.WithLabelValues("skipped").Inc()
	m.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "[MAIL][SKIP] no api key",
		Fields:  map[string]any{"to": strings.Join(e.To, ","), "subject": e.Subject},
	})
	return nil
}
