package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/blogspot/internal/userservice"
)

type contextKey string

const userContextKey = contextKey("user")

func (app *application) createUserContext(r *http.Request, user *userservice.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func (app *application) getUserContext(r *http.Request) *userservice.User {
	user, ok := r.Context().Value(userContextKey).(*userservice.User)
	if !ok {
		return nil
	}
	return user
}

// viewerID returns the authenticated user's ID or nil for anonymous requests.
func (app *application) viewerID(r *http.Request) *int {
	user := app.getUserContext(r)
	if user == nil || user.IsAnonymous() {
		return nil
	}
	return &user.ID
}
