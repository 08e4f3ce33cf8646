// Package calendar holds the read-only event record.
package calendar

// Event is a plain calendar record. Start is pre-formatted for display:
// "HH:MM" for timed events, "Todo el día" for all-day ones.
type Event struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location,omitempty"`
	AllDay   bool   `json:"all_day"`
}
