package response

// DialogueResponse mirrors what the bot did with one injected message.
type DialogueResponse struct {
	Outcome     string               `json:"outcome"`
	Step        string               `json:"step,omitempty"`
	Replies     []string             `json:"replies"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
	Suggestions []string             `json:"suggestions,omitempty"`
	Canceled    int64                `json:"canceled,omitempty"`
}
