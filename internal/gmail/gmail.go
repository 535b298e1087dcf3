// Package gmail reads Gmail messages so their text can be submitted for
// classification.
package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"

	gm "google.golang.org/api/gmail/v1"
)

// Message is the part of a Gmail message needed for classification.
type Message struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
	Body     string `json:"body"`
	Snippet  string `json:"snippet,omitempty"`
}

// Read fetches a complete message by ID, decoding the body.
func Read(svc *gm.Service, messageID string) (*Message, error) {
	msg, err := svc.Users.Messages.Get("me", messageID).
		Format("full").
		Do()
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", messageID, err)
	}
	return fromAPI(msg), nil
}

// Text returns the content to classify: the body, or the snippet when the
// message has no readable body.
func (m *Message) Text() string {
	if strings.TrimSpace(m.Body) != "" {
		return m.Body
	}
	return m.Snippet
}

func fromAPI(msg *gm.Message) *Message {
	out := &Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
	}
	if msg.Payload == nil {
		return out
	}
	headers := headerMap(msg.Payload.Headers)
	out.From = headers["from"]
	out.To = headers["to"]
	out.Subject = headers["subject"]
	out.Date = headers["date"]
	out.Body = extractBody(msg.Payload)
	return out
}

// extractBody returns the plain text body, recursing into multipart
// messages. text/plain wins over text/html; HTML is returned as-is.
func extractBody(payload *gm.MessagePart) string {
	if body := findPart(payload, "text/plain"); body != "" {
		return body
	}
	return findPart(payload, "text/html")
}

func findPart(part *gm.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if len(part.Parts) == 0 {
		if (part.MimeType == mimeType || part.MimeType == "") && part.Body != nil && part.Body.Data != "" {
			if decoded, err := decodeBase64URL(part.Body.Data); err == nil {
				return decoded
			}
		}
		return ""
	}
	for _, child := range part.Parts {
		if body := findPart(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}

// headerMap lowercases header names; Gmail does not normalize their case.
func headerMap(headers []*gm.MessagePartHeader) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[strings.ToLower(h.Name)] = h.Value
	}
	return m
}

// decodeBase64URL decodes Gmail's base64url content, padded or not.
func decodeBase64URL(data string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
