package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoginRequest is the credentials payload for /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for /auth/register.
type RegisterRequest struct {
	FirstName            string `json:"first_name" validate:"required"`
	LastName             string `json:"last_name" validate:"required"`
	Gender               string `json:"gender" validate:"required,oneof=male female"`
	Email                string `json:"email" validate:"required,email"`
	PhoneNumber          string `json:"phone_number" validate:"required"`
	Nationality          string `json:"nationality" validate:"required"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// ValidateInput checks a request struct against its validation tags and
// reports failures as KindValidationFailed with a field map, the same way
// the backend reports its own rejections.
func ValidateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Kind: KindValidationFailed, Message: err.Error()}
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe)
		fields[name] = append(fields[name], fieldMessage(fe))
	}
	return &Error{Kind: KindValidationFailed, Message: "invalid input", Fields: fields}
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "FirstName":
		return "first_name"
	case "LastName":
		return "last_name"
	case "PhoneNumber":
		return "phone_number"
	case "PasswordConfirmation":
		return "password_confirmation"
	default:
		return strings.ToLower(fe.Field())
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Login authenticates against /auth/login and returns the normalized user
// record plus the issued bearer token. The token is NOT stored here; the
// session layer stores it only after role resolution succeeds.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*UserProfile, string, error) {
	if err := ValidateInput(req); err != nil {
		return nil, "", err
	}

	body, err := JSONBody(req)
	if err != nil {
		return nil, "", err
	}

	raw, err := c.Do(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return nil, "", err
	}

	return DecodeUser(raw)
}

// Register creates a new account via /auth/register.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := ValidateInput(req); err != nil {
		return err
	}

	body, err := JSONBody(req)
	if err != nil {
		return err
	}

	_, err = c.Do(ctx, http.MethodPost, "/auth/register", body)
	return err
}

// FetchProfile retrieves the caller's profile from /auth/user/details. It
// is the request used to validate a stored credential at session bootstrap.
func (c *Client) FetchProfile(ctx context.Context) (*UserProfile, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/auth/user/details", nil)
	if err != nil {
		return nil, err
	}

	profile, _, err := DecodeUser(raw)
	return profile, err
}

// UpdateProfile submits profile edits as a multipart form, optionally with
// an image. The backend expects the PUT spoofed through a _method field on
// a POST.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]string, imagePath string) error {
	form := make(map[string]string, len(fields)+1)
	for name, value := range fields {
		form[name] = value
	}
	form["_method"] = "PUT"

	fileField := ""
	if imagePath != "" {
		fileField = "image"
	}

	body, err := MultipartBody(form, fileField, imagePath)
	if err != nil {
		return err
	}

	_, err = c.Do(ctx, http.MethodPost, "/profile/profile/update", body)
	return err
}

// DeleteAccount permanently removes the caller's account.
func (c *Client) DeleteAccount(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodDelete, "/profile/profile", nil)
	return err
}
