package dto

import "encoding/json"

// TrackerEvent is the subset of a tracker webhook delivery the bot reads.
// Everything else in the payload is ignored.
type TrackerEvent struct {
	WebhookEvent string       `json:"webhookEvent"`
	Issue        TrackerIssue `json:"issue"`
	Changelog    Changelog    `json:"changelog"`
}

// TrackerIssue carries the issue identity and fields.
type TrackerIssue struct {
	Key    string        `json:"key"`
	Fields TrackerFields `json:"fields"`
}

// TrackerFields holds the issue fields the bot inspects. Description stays
// raw because trackers send either a plain string or a rich-text document.
type TrackerFields struct {
	Summary     string          `json:"summary"`
	Labels      []string        `json:"labels"`
	Description json.RawMessage `json:"description"`
	Status      StatusField     `json:"status"`
	Assignee    *UserField      `json:"assignee"`
}

// StatusField is a named tracker status.
type StatusField struct {
	Name string `json:"name"`
}

// UserField is a tracker account reference.
type UserField struct {
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

// Changelog lists the field changes of one update.
type Changelog struct {
	Items []ChangeItem `json:"items"`
}

// ChangeItem is one changed field with its old and new rendering.
type ChangeItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// WebhookAck is the small status body every delivery gets back.
type WebhookAck struct {
	Status string `json:"status"`
}
