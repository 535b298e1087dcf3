// Package types defines the payload schemas exchanged with the triage backend.
package types

// User is the identity record returned by the backend.
type User struct {
	ID                string         `json:"$id"`
	CreatedAt         string         `json:"$createdAt"`
	UpdatedAt         string         `json:"$updatedAt"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Status            bool           `json:"status"`
	Registration      string         `json:"registration,omitempty"`
	PasswordUpdate    string         `json:"passwordUpdate,omitempty"`
	EmailVerification bool           `json:"emailVerification"`
	PhoneVerification bool           `json:"phoneVerification"`
	Phone             string         `json:"phone,omitempty"`
	Labels            []string       `json:"labels,omitempty"`
	Prefs             map[string]any `json:"prefs,omitempty"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserResponse is the projection the backend returns for a new user.
type CreateUserResponse struct {
	ID                string `json:"$id"`
	CreatedAt         string `json:"$createdAt"`
	UpdatedAt         string `json:"$updatedAt"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Status            bool   `json:"status"`
	Registration      string `json:"registration,omitempty"`
	EmailVerification bool   `json:"emailVerification"`
	PhoneVerification bool   `json:"phoneVerification"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Email is a message record owned by the backend.
type Email struct {
	ID                string  `json:"$id"`
	CreatedAt         string  `json:"$createdAt"`
	UpdatedAt         string  `json:"$updatedAt"`
	Subject           string  `json:"subject"`
	Body              string  `json:"body"`
	Sender            string  `json:"sender"`
	Recipient         string  `json:"recipient"`
	SenderUserID      string  `json:"sender_user_id"`
	RecipientUserID   string  `json:"recipient_user_id"`
	Category          string  `json:"category"`
	ConfidenceScore   float64 `json:"confidence_score"`
	SuggestedResponse string  `json:"suggested_response"`
	Status            string  `json:"status"`
	IsRead            bool    `json:"is_read"`
	ProcessedAt       string  `json:"processed_at,omitempty"`
}

// InboxResponse is the body of GET /emails/inbox/{userId}.
type InboxResponse struct {
	Total       int      `json:"total"`
	UnreadCount int      `json:"unread_count"`
	Emails      []*Email `json:"emails"`
}

// SendEmailRequest is the body of POST /emails/send.
type SendEmailRequest struct {
	RecipientEmail string `json:"recipient_email"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

// ProcessTextRequest is the body of POST /emails/process-text.
type ProcessTextRequest struct {
	TextContent string `json:"text_content"`
	Subject     string `json:"subject,omitempty"`
}

// ProcessTextResponse is the classification result for raw text.
type ProcessTextResponse struct {
	Category          string  `json:"category"`
	ConfidenceScore   float64 `json:"confidence_score"`
	SuggestedResponse string  `json:"suggested_response"`
	ProcessingTime    float64 `json:"processing_time"`
}

// EmailFilter narrows GET /emails. Zero values are omitted from the query.
type EmailFilter struct {
	Category string
	Status   string
	Limit    int
}

// DashboardStats is aggregated client-side from a batch of emails.
type DashboardStats struct {
	TotalEmails        int     `json:"total_emails"`
	UnreadCount        int     `json:"unread_count"`
	ProductiveEmails   int     `json:"productive_emails"`
	UnproductiveEmails int     `json:"unproductive_emails"`
	ProcessingAccuracy float64 `json:"processing_accuracy"`
}

// Category constants.
const (
	CategoryProductive   = "produtivo"
	CategoryUnproductive = "improdutivo"
)

// ValidCategories is the set of allowed category values.
var ValidCategories = []string{CategoryProductive, CategoryUnproductive}

// IsValidCategory checks if a category string is valid.
func IsValidCategory(c string) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Status constants.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

// ValidStatuses is the set of allowed processing status values.
var ValidStatuses = []string{StatusPending, StatusProcessed, StatusFailed}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}
