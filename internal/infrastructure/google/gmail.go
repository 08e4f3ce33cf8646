package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/fvaldes/matutino/pkg/domain/mail"
)

const gmailBaseURL = "https://gmail.googleapis.com/gmail/v1"

const (
	perAccountLimit = 50
	totalMailLimit  = 200
)

// GmailSource fetches yesterday's messages across all configured accounts.
// A failing account is logged and skipped.
type GmailSource struct {
	accounts []*Account
	baseURL  string
	logger   *slog.Logger
	now      func() time.Time
}

func NewGmailSource(accounts []*Account, logger *slog.Logger) *GmailSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &GmailSource{
		accounts: accounts,
		baseURL:  gmailBaseURL,
		logger:   logger,
		now:      time.Now,
	}
}

// NewGmailSourceWithBaseURL allows pointing the source at a test server.
func NewGmailSourceWithBaseURL(accounts []*Account, baseURL string, logger *slog.Logger) *GmailSource {
	s := NewGmailSource(accounts, logger)
	s.baseURL = baseURL
	return s
}

type messageList struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type messagePayload struct {
	MimeType string `json:"mimeType"`
	Headers  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"headers"`
	Body struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []messagePayload `json:"parts"`
}

type fullMessage struct {
	ID      string         `json:"id"`
	Payload messagePayload `json:"payload"`
}

// FetchYesterday pulls yesterday's messages from every account in parallel,
// merges them newest first and caps the total.
func (s *GmailSource) FetchYesterday(ctx context.Context) ([]mail.Message, error) {
	if len(s.accounts) == 0 {
		return nil, fmt.Errorf("no Google accounts configured, set %s", TokensEnvVar)
	}

	results := make([][]mail.Message, len(s.accounts))
	var wg sync.WaitGroup
	for i, acct := range s.accounts {
		if !acct.HasScope("gmail") {
			continue
		}
		wg.Add(1)
		go func(i int, acct *Account) {
			defer wg.Done()
			msgs, err := s.fetchAccount(ctx, acct)
			if err != nil {
				s.logger.Warn("gmail fetch failed", "account", acct.Email, "error", err)
				return
			}
			results[i] = msgs
		}(i, acct)
	}
	wg.Wait()

	var merged []mail.Message
	for _, msgs := range results {
		merged = append(merged, msgs...)
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Date > merged[j].Date })
	if len(merged) > totalMailLimit {
		merged = merged[:totalMailLimit]
	}
	return merged, nil
}

func (s *GmailSource) fetchAccount(ctx context.Context, acct *Account) ([]mail.Message, error) {
	client := acct.HTTPClient(ctx)

	yesterday := s.now().AddDate(0, 0, -1)
	query := fmt.Sprintf("after:%s before:%s",
		yesterday.Format("2006/01/02"), s.now().Format("2006/01/02"))

	listURL := fmt.Sprintf("%s/users/me/messages?q=%s&maxResults=%d",
		s.baseURL, url.QueryEscape(query), perAccountLimit)

	var list messageList
	if err := s.getJSON(ctx, client, listURL, &list); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	msgs := make([]mail.Message, 0, len(list.Messages))
	for _, ref := range list.Messages {
		var full fullMessage
		getURL := fmt.Sprintf("%s/users/me/messages/%s?format=full", s.baseURL, ref.ID)
		if err := s.getJSON(ctx, client, getURL, &full); err != nil {
			s.logger.Warn("gmail message fetch failed", "account", acct.Email, "id", ref.ID, "error", err)
			continue
		}
		msgs = append(msgs, toMessage(full, acct.Email))
	}
	return msgs, nil
}

func (s *GmailSource) getJSON(ctx context.Context, client *http.Client, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func toMessage(full fullMessage, account string) mail.Message {
	msg := mail.Message{
		Sender:  "Unknown Sender",
		Subject: "No Subject",
		Account: account,
	}
	for _, h := range full.Payload.Headers {
		switch h.Name {
		case "Subject":
			msg.Subject = h.Value
		case "From":
			msg.Sender = h.Value
		case "To":
			msg.To = h.Value
		case "Date":
			msg.Date = h.Value
		}
	}

	body := extractBody(full.Payload)
	if len(body) > 500 {
		body = body[:500]
	}
	msg.Body = body
	return msg
}

// extractBody returns the first text/plain part, decoded from the API's
// URL-safe base64.
func extractBody(payload messagePayload) string {
	if len(payload.Parts) > 0 {
		for _, part := range payload.Parts {
			if part.MimeType == "text/plain" && part.Body.Data != "" {
				return decodeBody(part.Body.Data)
			}
		}
		return ""
	}
	if payload.MimeType == "text/plain" && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}
	return ""
}

// decodeBody tolerates both padded and unpadded base64url payloads.
func decodeBody(data string) string {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	return ""
}
