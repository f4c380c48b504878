package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/albin6/authdeck/session"
	"github.com/albin6/authdeck/storage"
)

// Each operation is a fixed mapping from a semantic action to an
// endpoint and payload shape. No business logic lives here beyond
// shaping the request and unwrapping the response body.

// Login exchanges credentials for a user and a token pair.
func (c *Client) Login(ctx context.Context, creds session.Credentials) (*session.LoginResult, error) {
	data, _, err := doEnvelope[authPayload](c, ctx, http.MethodPost, "/auth/login",
		loginRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return nil, err
	}
	if data == nil || data.User == nil || data.Token == "" {
		return nil, &APIError{Message: fallbackMessage}
	}
	return &session.LoginResult{User: data.User, Token: data.Token, Refresh: data.RefreshToken}, nil
}

// Signup creates an account. The caller is not authenticated by this
// call; verification happens via VerifyOTP.
func (c *Client) Signup(ctx context.Context, in session.SignupInput) (string, error) {
	_, msg, err := doEnvelope[emptyPayload](c, ctx, http.MethodPost, "/auth/signup",
		signupRequest{Email: in.Email, Password: in.Password, FirstName: in.FirstName, LastName: in.LastName})
	return msg, err
}

// VerifyOTP confirms the email verification code sent at signup.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	_, msg, err := doEnvelope[emptyPayload](c, ctx, http.MethodPost, "/auth/verify-otp",
		otpRequest{Email: email, OTP: code})
	return msg, err
}

// ResendOTP requests a fresh verification code.
func (c *Client) ResendOTP(ctx context.Context, email string) (string, error) {
	_, msg, err := doEnvelope[emptyPayload](c, ctx, http.MethodPost, "/auth/resend-otp",
		emailRequest{Email: email})
	return msg, err
}

// ForgotPassword starts the password-reset flow for the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	_, msg, err := doEnvelope[emptyPayload](c, ctx, http.MethodPost, "/auth/forgot-password",
		emailRequest{Email: email})
	return msg, err
}

// ResetPassword completes the password-reset flow with the emailed code.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) (string, error) {
	_, msg, err := doEnvelope[emptyPayload](c, ctx, http.MethodPost, "/auth/reset-password",
		resetPasswordRequest{Email: email, OTP: code, NewPassword: newPassword})
	return msg, err
}

// Me fetches the account for the stored access token. Unlike the other
// endpoints, /auth/me returns a bare user record.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the session server-side, then clears the persisted
// tokens locally regardless of the remote outcome. The controller
// performs its own clear as well; both are idempotent whole-pair
// removals, so order does not matter.
func (c *Client) Logout(ctx context.Context) error {
	_, _, err := doEnvelope[emptyPayload](c, ctx, http.MethodPost, "/auth/logout", nil)
	if clearErr := c.store.Clear(); clearErr != nil {
		c.log.Warn("clearing stored tokens failed", slog.String("error", clearErr.Error()))
	}
	// An unauthorized response already invalidated the session; don't
	// report it as a logout failure.
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

// Refresh exchanges the stored refresh token for a fresh token pair and
// persists it. Concurrent callers collapse into a single upstream call.
func (c *Client) Refresh(ctx context.Context) (storage.Tokens, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		current, err := c.store.Load()
		if err != nil {
			return nil, &APIError{Message: expiredMessage, Err: err}
		}
		if current.Refresh == "" {
			return nil, &APIError{Message: expiredMessage, Err: ErrUnauthorized}
		}

		data, _, err := doEnvelope[authPayload](c, ctx, http.MethodPost, "/auth/refresh",
			refreshRequest{RefreshToken: current.Refresh})
		if err != nil {
			return nil, err
		}
		if data == nil || data.Token == "" {
			return nil, &APIError{Message: fallbackMessage}
		}

		next := storage.Tokens{Access: data.Token, Refresh: data.RefreshToken}
		if next.Refresh == "" {
			// Server did not rotate the refresh token; keep the old one.
			next.Refresh = current.Refresh
		}
		if err := c.store.Save(next); err != nil {
			return nil, &APIError{Message: fallbackMessage, Err: err}
		}
		return next, nil
	})
	if err != nil {
		return storage.Tokens{}, err
	}
	return v.(storage.Tokens), nil
}
