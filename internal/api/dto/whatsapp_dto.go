package dto

// SendTemplateRequest payload for WhatsApp template sends.
type SendTemplateRequest struct {
	To   string            `json:"to"`
	Vars map[string]string `json:"vars"`
}

// SendTemplateResponse relays the provider acknowledgment.
type SendTemplateResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}
