package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/daviddao/mailtriage/internal/types"
)

// UserClient exposes the backend's user operations.
type UserClient struct {
	client *Client
}

// NewUserClient returns a UserClient over c.
func NewUserClient(c *Client) *UserClient {
	return &UserClient{client: c}
}

// Register creates a user.
func (u *UserClient) Register(ctx context.Context, req types.CreateUserRequest) (*types.CreateUserResponse, error) {
	resp, err := u.client.Post(ctx, "/users", req, nil)
	if err != nil {
		return nil, err
	}
	if resp.Empty() {
		return nil, newError(resp.Status, "could not create user", ErrNoData)
	}
	var created types.CreateUserResponse
	if err := resp.Decode(&created); err != nil {
		return nil, newError(resp.Status, "invalid response: "+err.Error(), ErrUnrecognizedShape)
	}
	return &created, nil
}

// Login looks the user up by exact email match.
//
// The password is not verified here. Credential checking is not part of the
// backend contract yet, so it is accepted and only noted on stderr.
// TODO: verify the password once the backend exposes a credential check.
func (u *UserClient) Login(ctx context.Context, creds types.LoginRequest) (*types.User, error) {
	resp, err := u.client.Get(ctx, "/users?search="+url.QueryEscape(creds.Email), nil)
	if err != nil {
		return nil, err
	}
	if resp.Empty() {
		return nil, newError(resp.Status, "user not found", ErrNotFound)
	}

	users, err := decodeUserList(resp)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, newError(resp.Status, "user not found", ErrNotFound)
	}

	for _, user := range users {
		if user.Email == creds.Email {
			if creds.Password != "" {
				fmt.Fprintln(os.Stderr, "warning: password verification is not implemented; password ignored")
			}
			return user, nil
		}
	}
	return nil, newError(resp.Status, "user not found", ErrNotFound)
}

// GetUser fetches a single user by ID.
func (u *UserClient) GetUser(ctx context.Context, id string) (*types.User, error) {
	resp, err := u.client.Get(ctx, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if resp.Empty() {
		return nil, newError(resp.Status, "user not found", ErrNotFound)
	}
	var user types.User
	if err := resp.Decode(&user); err != nil {
		return nil, newError(resp.Status, "invalid response: "+err.Error(), ErrUnrecognizedShape)
	}
	return &user, nil
}

// ListUsers returns users, optionally filtered by search. An empty body
// yields an empty list.
func (u *UserClient) ListUsers(ctx context.Context, search string) ([]*types.User, error) {
	endpoint := "/users"
	if search != "" {
		endpoint += "?search=" + url.QueryEscape(search)
	}
	resp, err := u.client.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if resp.Empty() {
		return []*types.User{}, nil
	}
	return decodeUserList(resp)
}

// userListShape names the payload forms accepted for a user listing.
type userListShape int

const (
	shapeUnknown userListShape = iota
	shapeBareList
	shapeWrapped
)

// detectUserListShape classifies a listing body as a bare array or an
// object carrying a "users" array.
func detectUserListShape(raw json.RawMessage) userListShape {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return shapeUnknown
	}
	switch trimmed[0] {
	case '[':
		return shapeBareList
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return shapeUnknown
		}
		users, ok := probe["users"]
		if !ok {
			return shapeUnknown
		}
		if inner := bytes.TrimSpace(users); len(inner) > 0 && inner[0] == '[' {
			return shapeWrapped
		}
	}
	return shapeUnknown
}

// decodeUserList normalizes both listing shapes to a slice.
func decodeUserList(resp *Response) ([]*types.User, error) {
	if !resp.IsJSON() {
		return nil, newError(resp.Status, "invalid response: expected JSON", ErrUnrecognizedShape)
	}

	var users []*types.User
	switch detectUserListShape(resp.JSON) {
	case shapeBareList:
		if err := json.Unmarshal(resp.JSON, &users); err != nil {
			return nil, newError(resp.Status, "invalid response: "+err.Error(), ErrUnrecognizedShape)
		}
	case shapeWrapped:
		var wrapped struct {
			Users []*types.User `json:"users"`
		}
		if err := json.Unmarshal(resp.JSON, &wrapped); err != nil {
			return nil, newError(resp.Status, "invalid response: "+err.Error(), ErrUnrecognizedShape)
		}
		users = wrapped.Users
	default:
		return nil, newError(resp.Status, "invalid response", ErrUnrecognizedShape)
	}

	result := make([]*types.User, 0, len(users))
	for _, user := range users {
		if user != nil {
			result = append(result, user)
		}
	}
	return result, nil
}
