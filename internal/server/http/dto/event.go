package dto

// InboundEventRequest is the webhook payload delivered by the messaging
// transport. Kind is one of "command", "button", or "text".
type InboundEventRequest struct {
	ActorID     int64  `json:"actor_id" binding:"required"`
	Kind        string `json:"kind" binding:"required"`
	Payload     string `json:"payload"`
	DisplayName string `json:"display_name,omitempty"`
	Username    string `json:"username,omitempty"`
}

// ButtonResponse is one rendered keyboard cell.
type ButtonResponse struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// OutboundResponse is the reply the transport renders for the actor.
type OutboundResponse struct {
	Text      string             `json:"text"`
	Keyboard  [][]ButtonResponse `json:"keyboard,omitempty"`
	ImageLink string             `json:"image_link,omitempty"`
}
