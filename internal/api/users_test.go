package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/daviddao/mailtriage/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

const twoUsers = `[
	{"$id":"u1","name":"Ana","email":"ana@example.com","status":true},
	{"$id":"u2","name":"Bob","email":"bob@example.com","status":true}
]`

func TestLoginNormalizesBothShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare":    twoUsers,
		"wrapped": `{"total":2,"users":` + twoUsers + `}`,
	} {
		t.Run(name, func(t *testing.T) {
			var search string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				search = r.URL.Query().Get("search")
				jsonHandler(http.StatusOK, body)(w, r)
			})

			user, err := NewUserClient(c).Login(context.Background(), types.LoginRequest{Email: "bob@example.com"})
			require.NoError(t, err)
			assert.Equal(t, "bob@example.com", search)
			assert.Equal(t, "u2", user.ID)
			assert.Equal(t, "Bob", user.Name)
		})
	}
}

func TestLoginNotFound(t *testing.T) {
	tests := map[string]string{
		"empty bare":    `[]`,
		"empty wrapped": `{"users":[]}`,
		"no exact":      twoUsers,
		"null":          `null`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, jsonHandler(http.StatusOK, body))
			_, err := NewUserClient(c).Login(context.Background(), types.LoginRequest{Email: "ANA@example.com"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))
			assert.Equal(t, "user not found", err.Error())
		})
	}
}

func TestLoginUnrecognizedShape(t *testing.T) {
	for name, body := range map[string]string{
		"object without users": `{"items":[]}`,
		"users not a list":     `{"users":{"a":1}}`,
		"scalar":               `42`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, jsonHandler(http.StatusOK, body))
			_, err := NewUserClient(c).Login(context.Background(), types.LoginRequest{Email: "ana@example.com"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnrecognizedShape))
			assert.Contains(t, err.Error(), "invalid response")
		})
	}
}

func TestLoginPropagatesHTTPError(t *testing.T) {
	c := newTestClient(t, jsonHandler(http.StatusInternalServerError, `{"detail":"db down"}`))
	_, err := NewUserClient(c).Login(context.Background(), types.LoginRequest{Email: "ana@example.com"})
	require.Error(t, err)
	assert.Equal(t, 500, StatusOf(err))
	assert.Equal(t, "db down", err.Error())
}

func TestRegister(t *testing.T) {
	var got types.CreateUserRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		jsonHandler(http.StatusCreated, `{"$id":"u9","name":"Cy","email":"cy@example.com"}`)(w, r)
	})

	created, err := NewUserClient(c).Register(context.Background(), types.CreateUserRequest{Name: "Cy", Email: "cy@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "u9", created.ID)
	assert.Equal(t, "pw", got.Password)
}

func TestRegisterNoData(t *testing.T) {
	c := newTestClient(t, jsonHandler(http.StatusOK, `null`))
	_, err := NewUserClient(c).Register(context.Background(), types.CreateUserRequest{Email: "x@y.z"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Equal(t, "could not create user", err.Error())
}

func TestGetUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1", r.URL.Path)
		jsonHandler(http.StatusOK, `{"$id":"u1","email":"ana@example.com","labels":["vip"],"prefs":{"lang":"pt"}}`)(w, r)
	})

	user, err := NewUserClient(c).GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"vip"}, user.Labels)
	assert.Equal(t, "pt", user.Prefs["lang"])
}

func TestListUsers(t *testing.T) {
	var rawQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		jsonHandler(http.StatusOK, `{"users":`+twoUsers+`}`)(w, r)
	})
	uc := NewUserClient(c)

	users, err := uc.ListUsers(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Empty(t, rawQuery)

	_, err = uc.ListUsers(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "search=a+b", rawQuery)
}

func TestListUsersEmptyBody(t *testing.T) {
	c := newTestClient(t, jsonHandler(http.StatusOK, ``))
	users, err := NewUserClient(c).ListUsers(context.Background(), "x")
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestDetectUserListShape(t *testing.T) {
	assert.Equal(t, shapeBareList, detectUserListShape(json.RawMessage(` [1]`)))
	assert.Equal(t, shapeWrapped, detectUserListShape(json.RawMessage(`{"users":[]}`)))
	assert.Equal(t, shapeUnknown, detectUserListShape(json.RawMessage(`{"users":null}`)))
	assert.Equal(t, shapeUnknown, detectUserListShape(json.RawMessage(`"x"`)))
	assert.Equal(t, shapeUnknown, detectUserListShape(nil))
}
