// Package mail holds the mailbox record and the rule-based prefilter.
package mail

import (
	"strings"

	"github.com/fvaldes/matutino/pkg/domain/prefs"
)

// Message is a plain mailbox record as returned by a read-only provider.
type Message struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	To      string `json:"to"`
	Date    string `json:"date"`
	Body    string `json:"body"`
	Account string `json:"account,omitempty"`
}

// Prefilter drops messages whose sender or subject contains a blocked
// keyword, or whose sender contains a blocked domain or sender. Matching is
// deliberately broad: case-insensitive substring, not exact. Returns the
// surviving subset and the original count. Pure function; applying it twice
// is equivalent to once.
func Prefilter(msgs []Message, p *prefs.Preferences) ([]Message, int) {
	original := len(msgs)
	if p == nil {
		return msgs, original
	}

	filtered := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		sender := strings.ToLower(m.Sender)
		subject := strings.ToLower(m.Subject)

		if containsAny(subject, p.BlockedKeywords) || containsAny(sender, p.BlockedKeywords) {
			continue
		}
		if containsAny(sender, p.BlockedDomains) {
			continue
		}
		if containsAny(sender, p.BlockedSenders) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered, original
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
