package api

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"

	"github.com/daviddao/mailtriage/internal/types"
)

// Listing limits used when the caller passes zero.
const (
	DefaultLimit   = 50
	DashboardLimit = 1000
)

// EmailClient exposes the backend's email operations.
type EmailClient struct {
	client *Client
}

// NewEmailClient returns an EmailClient over c.
func NewEmailClient(c *Client) *EmailClient {
	return &EmailClient{client: c}
}

// GetInbox returns the inbox of userID with its unread count.
func (e *EmailClient) GetInbox(ctx context.Context, userID string, limit int, includeRead bool) (*types.InboxResponse, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limitOrDefault(limit)))
	q.Set("include_read", strconv.FormatBool(includeRead))

	resp, err := e.client.Get(ctx, "/emails/inbox/"+url.PathEscape(userID)+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if resp.Empty() {
		return nil, newError(resp.Status, "could not fetch inbox", ErrNoData)
	}
	var inbox types.InboxResponse
	if err := resp.Decode(&inbox); err != nil {
		return nil, newError(resp.Status, "invalid response: "+err.Error(), ErrUnrecognizedShape)
	}
	if inbox.Emails == nil {
		inbox.Emails = []*types.Email{}
	}
	return &inbox, nil
}

// GetSentEmails returns emails sent by userID. It never fails on an empty body.
func (e *EmailClient) GetSentEmails(ctx context.Context, userID string, limit int) ([]*types.Email, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limitOrDefault(limit)))
	return e.list(ctx, "/emails/sent/"+url.PathEscape(userID)+"?"+q.Encode())
}

// GetEmail fetches a single email.
func (e *EmailClient) GetEmail(ctx context.Context, id string) (*types.Email, error) {
	resp, err := e.client.Get(ctx, "/emails/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeEmail(resp, "email not found", ErrNotFound)
}

// SendEmail sends an email on behalf of senderUserID.
func (e *EmailClient) SendEmail(ctx context.Context, senderUserID string, req types.SendEmailRequest) (*types.Email, error) {
	q := url.Values{}
	q.Set("sender_user_id", senderUserID)
	resp, err := e.client.Post(ctx, "/emails/send?"+q.Encode(), req, nil)
	if err != nil {
		return nil, err
	}
	return decodeEmail(resp, "could not send email", ErrNoData)
}

// MarkAsRead flags an email as read for userID.
func (e *EmailClient) MarkAsRead(ctx context.Context, emailID, userID string) error {
	q := url.Values{}
	q.Set("user_id", userID)
	_, err := e.client.Patch(ctx, "/emails/"+url.PathEscape(emailID)+"/read?"+q.Encode(), nil, nil)
	return err
}

// GetConversation returns the thread between two users. It never fails on an empty body.
func (e *EmailClient) GetConversation(ctx context.Context, user1ID, user2ID string, limit int) ([]*types.Email, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limitOrDefault(limit)))
	return e.list(ctx, "/emails/conversation/"+url.PathEscape(user1ID)+"/"+url.PathEscape(user2ID)+"?"+q.Encode())
}

// ProcessText classifies raw text.
func (e *EmailClient) ProcessText(ctx context.Context, text, subject string) (*types.ProcessTextResponse, error) {
	req := types.ProcessTextRequest{TextContent: text, Subject: subject}
	resp, err := e.client.Post(ctx, "/emails/process-text", req, nil)
	if err != nil {
		return nil, err
	}
	if resp.Empty() {
		return nil, newError(resp.Status, "could not process text", ErrNoData)
	}
	var result types.ProcessTextResponse
	if err := resp.Decode(&result); err != nil {
		return nil, newError(resp.Status, "invalid response: "+err.Error(), ErrUnrecognizedShape)
	}
	return &result, nil
}

// ReprocessEmail runs classification again on a stored email.
func (e *EmailClient) ReprocessEmail(ctx context.Context, id string) (*types.Email, error) {
	resp, err := e.client.Post(ctx, "/emails/"+url.PathEscape(id)+"/reprocess", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeEmail(resp, "could not reprocess email", ErrNoData)
}

// DeleteEmail removes a stored email.
func (e *EmailClient) DeleteEmail(ctx context.Context, id string) error {
	_, err := e.client.Delete(ctx, "/emails/"+url.PathEscape(id), nil)
	return err
}

// GetAllEmails lists emails, optionally filtered by category and status.
func (e *EmailClient) GetAllEmails(ctx context.Context, filter types.EmailFilter) ([]*types.Email, error) {
	if filter.Category != "" && !types.IsValidCategory(filter.Category) {
		return nil, fmt.Errorf("invalid category %q (must be: %s, %s)", filter.Category, types.CategoryProductive, types.CategoryUnproductive)
	}
	if filter.Status != "" && !types.IsValidStatus(filter.Status) {
		return nil, fmt.Errorf("invalid status %q (must be: pending, processed, failed)", filter.Status)
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limitOrDefault(filter.Limit)))
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	return e.list(ctx, "/emails?"+q.Encode())
}

// GetDashboardStats aggregates the inbox of userID. Any failure yields
// all-zero stats; it never returns an error.
func (e *EmailClient) GetDashboardStats(ctx context.Context, userID string) types.DashboardStats {
	inbox, err := e.GetInbox(ctx, userID, DashboardLimit, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not compute dashboard stats: %v\n", err)
		return types.DashboardStats{}
	}
	return ComputeStats(inbox)
}

// ComputeStats derives dashboard counters from an inbox. Accuracy is the
// processed share as a percentage rounded to one decimal.
func ComputeStats(inbox *types.InboxResponse) types.DashboardStats {
	if inbox == nil {
		return types.DashboardStats{}
	}
	stats := types.DashboardStats{
		TotalEmails: len(inbox.Emails),
		UnreadCount: inbox.UnreadCount,
	}
	processed := 0
	for _, email := range inbox.Emails {
		if email == nil {
			continue
		}
		switch email.Category {
		case types.CategoryProductive:
			stats.ProductiveEmails++
		case types.CategoryUnproductive:
			stats.UnproductiveEmails++
		}
		if email.Status == types.StatusProcessed {
			processed++
		}
	}
	if stats.TotalEmails > 0 {
		accuracy := float64(processed) / float64(stats.TotalEmails) * 100
		stats.ProcessingAccuracy = math.Round(accuracy*10) / 10
	}
	return stats
}

func (e *EmailClient) list(ctx context.Context, endpoint string) ([]*types.Email, error) {
	resp, err := e.client.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if resp.Empty() {
		return []*types.Email{}, nil
	}
	var emails []*types.Email
	if err := resp.Decode(&emails); err != nil {
		return nil, newError(resp.Status, "invalid response: "+err.Error(), ErrUnrecognizedShape)
	}
	if emails == nil {
		emails = []*types.Email{}
	}
	return emails, nil
}

func decodeEmail(resp *Response, emptyMsg string, sentinel error) (*types.Email, error) {
	if resp.Empty() {
		return nil, newError(resp.Status, emptyMsg, sentinel)
	}
	var email types.Email
	if err := resp.Decode(&email); err != nil {
		return nil, newError(resp.Status, "invalid response: "+err.Error(), ErrUnrecognizedShape)
	}
	return &email, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
