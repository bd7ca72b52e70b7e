package models

// BookboostUserPayload is the upsert body sent to the CDP. Field names follow
// the Bookboost wire format (snake_case).
type BookboostUserPayload struct {
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	ZipCode    string `json:"zip_code,omitempty"`
	Company    string `json:"company,omitempty"`
	Source     string `json:"source"`
	ExternalID string `json:"external_id,omitempty"`
}

// BookboostUser is the CDP's view of an upserted profile.
type BookboostUser struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// MessageChannel selects the delivery channel for a CDP message.
type MessageChannel string

const (
	MessageChannelEmail MessageChannel = "email"
	MessageChannelSMS   MessageChannel = "sms"
)
