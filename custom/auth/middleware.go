package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"restaurant_api/constants"
	"restaurant_api/custom/util"
	"restaurant_api/model"
)

type contextKey string

const userContextKey = contextKey("auth_user")
const tokenContextKey = contextKey("auth_token")

// RequireToken gates a handler behind bearer-token authentication. Missing,
// malformed, expired and revoked tokens all get the same 401 body so the
// response leaks nothing about why the token was rejected.
func (ctx *HandlerContext) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			util.WriteMessage(w, http.StatusUnauthorized, constants.UNAUTHENTICATED)
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if raw == "" {
			util.WriteMessage(w, http.StatusUnauthorized, constants.UNAUTHENTICATED)
			return
		}

		var token model.AuthToken
		errDb := ctx.db.Preload("User").
			Where("token = ? AND revoked = ? AND expires_at > ?", raw, false, time.Now()).
			First(&token).Error
		if errDb != nil || token.User == nil {
			util.WriteMessage(w, http.StatusUnauthorized, constants.UNAUTHENTICATED)
			return
		}

		reqCtx := context.WithValue(r.Context(), userContextKey, token.User)
		reqCtx = context.WithValue(reqCtx, tokenContextKey, &token)
		next(w, r.WithContext(reqCtx))
	}
}

// CurrentUser returns the authenticated user stored by RequireToken.
func CurrentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userContextKey).(*model.User)
	return user
}

// CurrentToken returns the token record stored by RequireToken.
func CurrentToken(r *http.Request) *model.AuthToken {
	token, _ := r.Context().Value(tokenContextKey).(*model.AuthToken)
	return token
}
