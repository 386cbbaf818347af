package request

// MessageRequest injects a customer message into the operator's business
// as if it had arrived over WhatsApp.
type MessageRequest struct {
	Phone string `json:"phone" validate:"required,min=5,max=20"`
	Text  string `json:"text" validate:"required,max=4096"`
}
