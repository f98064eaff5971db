package dto

// ChatMessageRequest is one inbound chat turn from a platform adapter.
type ChatMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	From           string `json:"from"`
	Text           string `json:"text"`
}

// ChatMessageResponse is the bot's reply.
type ChatMessageResponse struct {
	Reply     string `json:"reply"`
	TicketKey string `json:"ticket_key,omitempty"`
}
