package models

import "encoding/json"

// AuthUser is the canonical profile shape. It is re-derived from the server
// on every session probe; nothing about it is persisted locally.
type AuthUser struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"first_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"telephone"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResult is the discriminated outcome the session holder hands back to
// the UI instead of an error, so inline field messages need no exception
// handling.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// FieldErrors carries client-side validation failures keyed by field
	// name; when set, no network call was made.
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

type rawProfile struct {
	ID          FlexString `json:"id"`
	UserID      FlexString `json:"userId"`
	MongoID     FlexString `json:"_id"`
	Name        string     `json:"name"`
	FullName    string     `json:"fullName"`
	FirstName   string     `json:"first_name"`
	FirstNameCC string     `json:"firstName"`
	LastName    string     `json:"last_name"`
	LastNameCC  string     `json:"lastName"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	Mail        string     `json:"mail"`
	Phone       FlexString `json:"phone"`
	Mobile      FlexString `json:"mobile"`
	Telephone   FlexString `json:"telephone"`
	Verified    FlexBool   `json:"email_verified"`

	Contact *struct {
		Email string `json:"email"`
	} `json:"contact"`
	User *json.RawMessage `json:"user"`
	Data *json.RawMessage `json:"data"`
}

// NormalizeAuthUser maps the several profile envelopes the auth backend has
// shipped over time ({data:{user:{...}}}, {data:{...}}, {user:{...}}, bare)
// into one AuthUser. A payload without a usable email means "not
// authenticated" and yields nil.
func NormalizeAuthUser(payload []byte) *AuthUser {
	var raw rawProfile
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil
	}

	// Unwrap nested envelopes first; the innermost document wins.
	if raw.Data != nil {
		if user := NormalizeAuthUser(*raw.Data); user != nil {
			return user
		}
	}

	if raw.User != nil {
		if user := NormalizeAuthUser(*raw.User); user != nil {
			return user
		}
	}

	email := firstNonEmpty(raw.Email, raw.Mail)
	if email == "" && raw.Contact != nil {
		email = raw.Contact.Email
	}

	if email == "" {
		return nil
	}

	fullNameFromParts := joinName(
		firstNonEmpty(raw.FirstName, raw.FirstNameCC),
		firstNonEmpty(raw.LastName, raw.LastNameCC),
	)

	name := firstNonEmpty(raw.Name, raw.FullName, fullNameFromParts, raw.Username, raw.DisplayName, email)

	id := firstNonEmpty(raw.ID.String(), raw.UserID.String(), raw.MongoID.String())
	if id == "" {
		id = email
	}

	return &AuthUser{
		ID:            id,
		Name:          name,
		Email:         email,
		Phone:         firstNonEmpty(raw.Phone.String(), raw.Mobile.String(), raw.Telephone.String()),
		EmailVerified: bool(raw.Verified),
	}
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
