package domain

import "time"

// ActivityEntry is one line of the recent-activity feed, newest first.
type ActivityEntry struct {
	ID     string    `json:"id"`
	UserID string    `json:"-"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}
