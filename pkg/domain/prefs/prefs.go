// Package prefs holds the mail-filtering preferences document.
package prefs

import "strings"

// Preferences is the flat persisted preferences object. String sets are
// order-irrelevant and duplicate-free on insert.
type Preferences struct {
	TopK            int      `json:"top_k"`
	OnlyUnread      bool     `json:"only_unread"`
	MinImportance   string   `json:"min_importance"`
	PriorityDomains []string `json:"priority_domains"`
	PrioritySenders []string `json:"priority_senders"`
	BlockedDomains  []string `json:"blocked_domains"`
	BlockedSenders  []string `json:"blocked_senders"`
	BlockedKeywords []string `json:"blocked_keywords"`
}

func Default() *Preferences {
	return &Preferences{
		TopK:            10,
		OnlyUnread:      false,
		MinImportance:   "any",
		PriorityDomains: []string{},
		PrioritySenders: []string{},
		BlockedDomains:  []string{},
		BlockedSenders:  []string{},
		BlockedKeywords: []string{"newsletter", "promo", "boletín", "no-reply"},
	}
}

type Action string

const (
	ActionBlock      Action = "block"
	ActionPrioritize Action = "prioritize"
	ActionUnblock    Action = "unblock"
	ActionModify     Action = "modify"
)

type Kind string

const (
	KindDomain  Kind = "domain"
	KindSender  Kind = "sender"
	KindKeyword Kind = "keyword"
)

// Change is one interpreted preference mutation, produced either by the AI
// interpreter or the keyword heuristic.
type Change struct {
	Action      Action   `json:"action"`
	Kind        Kind     `json:"type"`
	Values      []string `json:"values"`
	Explanation string   `json:"explanation"`
}

// Apply mutates the preferences in place. Unknown action/kind combinations
// are ignored rather than failing; the change explanation still reaches the
// user.
func (p *Preferences) Apply(ch Change) {
	switch ch.Action {
	case ActionBlock:
		switch ch.Kind {
		case KindDomain:
			p.BlockedDomains = appendUnique(p.BlockedDomains, ch.Values)
		case KindSender:
			p.BlockedSenders = appendUnique(p.BlockedSenders, ch.Values)
		case KindKeyword:
			p.BlockedKeywords = appendUnique(p.BlockedKeywords, ch.Values)
		}
	case ActionPrioritize:
		switch ch.Kind {
		case KindDomain:
			p.PriorityDomains = appendUnique(p.PriorityDomains, ch.Values)
		case KindSender:
			p.PrioritySenders = appendUnique(p.PrioritySenders, ch.Values)
		}
	case ActionUnblock:
		switch ch.Kind {
		case KindDomain:
			p.BlockedDomains = remove(p.BlockedDomains, ch.Values)
		case KindSender:
			p.BlockedSenders = remove(p.BlockedSenders, ch.Values)
		case KindKeyword:
			p.BlockedKeywords = remove(p.BlockedKeywords, ch.Values)
		}
	}
}

func appendUnique(list []string, values []string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || contains(list, v) {
			continue
		}
		list = append(list, v)
	}
	return list
}

func remove(list []string, values []string) []string {
	out := list[:0]
	for _, item := range list {
		if !contains(values, item) {
			out = append(out, item)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
