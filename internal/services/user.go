package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/zahrabeauty/storefront/internal/api"
	apperrors "github.com/zahrabeauty/storefront/internal/errors"
	"github.com/zahrabeauty/storefront/internal/models"
)

const (
	msgLoginFailed      = "Invalid email or password"
	msgServerUnreached  = "Could not reach the server"
	msgProfileUnreached = "Could not load the account profile"
	msgRegisterFailed   = "Could not create the account"
	msgRegisterOK       = "Account created. Please verify your email before completing an order."
	msgVerificationSent = "A verification message was sent to your email."
	msgVerificationFail = "Could not send the verification message"
	msgVerifyFailed     = "Could not verify the email address"

	msgFieldRequired = "This field is required"
	msgEmailInvalid  = "Please enter a valid email address"
	msgPasswordShort = "Password must be at least 8 characters"
)

// UserService is the auth session holder. Session continuity lives entirely
// in the server-managed cookie inside the API client's jar; nothing about
// credentials or the profile is persisted locally.
type UserService struct {
	client    api.Client
	validate  *validator.Validate
	sanitizer *bluemonday.Policy

	mu      sync.Mutex
	current *models.AuthUser
}

func NewUserService(client api.Client) *UserService {
	return &UserService{
		client:    client,
		validate:  validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// fieldErrorMap converts validator output into the field-keyed error map the
// form UIs render inline.
func fieldErrorMap(err error) map[string]string {

	fieldErrors := map[string]string{}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fieldErrors
	}

	for _, fieldErr := range validationErrs {

		field := strings.ToLower(fieldErr.Field()[:1]) + fieldErr.Field()[1:]

		switch fieldErr.Tag() {
		case "required":
			fieldErrors[field] = msgFieldRequired
		case "email":
			fieldErrors[field] = msgEmailInvalid
		case "min":
			fieldErrors[field] = msgPasswordShort
		default:
			fieldErrors[field] = msgFieldRequired
		}
	}

	return fieldErrors
}

func messageFromAPIError(err error, fallback string) string {
	if appErr, ok := apperrors.IsAppError(err); ok {
		if appErr.Code == apperrors.ErrCodeNetwork {
			return msgServerUnreached
		}

		if appErr.Message != "" && appErr.Message != "Request failed" {
			return appErr.Message
		}
	}

	return fallback
}

// Login authenticates against the token endpoint and then resolves the
// session into a profile. Validation failures are returned as field errors
// without touching the network.
func (s *UserService) Login(ctx context.Context, email, password string) models.AuthResult {

	req := &models.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	}

	if err := s.validate.Struct(req); err != nil {
		return models.AuthResult{Success: false, FieldErrors: fieldErrorMap(err)}
	}

	if err := s.client.Login(ctx, req); err != nil {
		return models.AuthResult{Success: false, Message: messageFromAPIError(err, msgLoginFailed)}
	}

	profile := s.RefreshSession(ctx)
	if profile == nil {
		return models.AuthResult{Success: false, Message: msgProfileUnreached}
	}

	return models.AuthResult{Success: true}
}

// Register creates a client account. Free-text fields are scrubbed of any
// markup before they leave the device.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) models.AuthResult {

	cleaned := &models.RegisterRequest{
		Name:     s.sanitizer.Sanitize(strings.TrimSpace(req.Name)),
		Email:    strings.TrimSpace(req.Email),
		Phone:    s.sanitizer.Sanitize(strings.TrimSpace(req.Phone)),
		Password: req.Password,
	}

	if err := s.validate.Struct(cleaned); err != nil {
		return models.AuthResult{Success: false, FieldErrors: fieldErrorMap(err)}
	}

	if err := s.client.Register(ctx, cleaned); err != nil {
		return models.AuthResult{Success: false, Message: messageFromAPIError(err, msgRegisterFailed)}
	}

	return models.AuthResult{Success: true, Message: msgRegisterOK}
}

// Logout clears the local session even when the backend call fails; the
// cookie may outlive us but the UI must not.
func (s *UserService) Logout(ctx context.Context) {

	if err := s.client.Logout(ctx); err != nil {
		slog.Warn("Logout request failed, clearing local session anyway", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *UserService) ResendEmailVerification(ctx context.Context) models.AuthResult {

	if err := s.client.SendEmailVerification(ctx); err != nil {
		return models.AuthResult{Success: false, Message: messageFromAPIError(err, msgVerificationFail)}
	}

	return models.AuthResult{Success: true, Message: msgVerificationSent}
}

// VerifyEmail confirms an emailed verification token, then re-resolves the
// profile so the verified flag is picked up right away.
func (s *UserService) VerifyEmail(ctx context.Context, token string) models.AuthResult {

	if err := s.client.VerifyEmail(ctx, strings.TrimSpace(token)); err != nil {
		return models.AuthResult{Success: false, Message: messageFromAPIError(err, msgVerifyFailed)}
	}

	s.RefreshSession(ctx)

	return models.AuthResult{Success: true}
}

// RefreshSession re-derives the current user from the server's "who am I"
// endpoint. Any failure, including a profile without a usable email, leaves
// the session unauthenticated.
func (s *UserService) RefreshSession(ctx context.Context) *models.AuthUser {

	profile, err := s.client.Me(ctx)
	if err != nil {
		profile = nil
	}

	s.mu.Lock()
	s.current = profile
	s.mu.Unlock()

	return profile
}

func (s *UserService) Current() *models.AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

func (s *UserService) IsAuthenticated() bool {
	return s.Current() != nil
}
