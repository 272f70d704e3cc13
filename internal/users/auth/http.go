// Copyright (c) 2026 Souq. All rights reserved.

/*
HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle, from account
creation and access-code activation to session refresh and logout.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Orchestrates the JWT access/refresh pair.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/souqhq/souq/internal/platform/middleware"
	requestutil "github.com/souqhq/souq/internal/platform/request"
	"github.com/souqhq/souq/internal/platform/respond"
	"github.com/souqhq/souq/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Signup, Activation, Login, Refresh, Logout, Profile).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup        : Creates a new inactive account.
//   - POST /activate      : Redeems an access code and unlocks the account.
//   - POST /login         : Authenticates and returns a token pair.
//   - POST /refresh-token : Exchanges a refresh token for a fresh pair.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/activate", handler.activate)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refreshToken)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.Post("/logout", handler.logout)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Name                 string   `json:"name"`
	Phone                string   `json:"phone"`
	Password             string   `json:"password"`
	ConfirmPassword      string   `json:"confirmPassword"`
	SalaryRange          string   `json:"salaryRange"`
	InterestedCategories []string `json:"interestedCategories"`
}

type activateRequest struct {
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	AccessCode string `json:"accessCode"`
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

/*
Signup handles the creation of a new user account.

POST /api/auth/signup

Description: Validates input, checks for phone conflicts, and persists a new
inactive user profile to the database.

Request:
  - Body: signupRequest (Name, Phone, Password, ConfirmPassword, optional profile fields)

Response:
  - 201: User: Created inactive profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Phone number already registered
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Required(FieldPhone, input.Phone).
		Phone(FieldPhone, input.Phone).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Required(FieldConfirmPassword, input.ConfirmPassword).
		MaxLen(FieldSalaryRange, input.SalaryRange, MaxSalaryRangeLength).
		Custom(FieldInterestedCategories, len(input.InterestedCategories) > MaxInterestedCategories, "Too many categories")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Signup(request.Context(), SignupInput{
		Name:                 input.Name,
		Phone:                input.Phone,
		Password:             input.Password,
		ConfirmPassword:      input.ConfirmPassword,
		SalaryRange:          input.SalaryRange,
		InterestedCategories: input.InterestedCategories,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusCreated,
		"Account created. Activate it with an access code to log in.", user)
}

/*
Activate redeems an access code and unlocks a signed-up account.

POST /api/auth/activate

Description: Authenticates with phone+password, validates the access code,
and activates the account with the role the code grants.

Request:
  - Body: activateRequest (Phone, Password, AccessCode)

Response:
  - 200: User: Activated profile with granted role
  - 400: Code invalid, expired, exhausted, or account already active
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) activate(writer http.ResponseWriter, request *http.Request) {
	var input activateRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPhone, input.Phone).
		Phone(FieldPhone, input.Phone).
		Required(FieldPassword, input.Password).
		Required(FieldAccessCode, input.AccessCode).
		AccessCode(FieldAccessCode, input.AccessCode)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Activate(request.Context(), ActivateInput{
		Phone:      input.Phone,
		Password:   input.Password,
		AccessCode: input.AccessCode,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "Account activated successfully", user)
}

/*
Login authenticates a user and establishes a session.

POST /api/auth/login

Description: Verifies credentials and returns the access/refresh token pair
alongside the user profile.

Request:
  - Body: loginRequest (Phone, Password)

Response:
  - 200: Session: Token pair and User profile
  - 401: ErrUnauthorized: Invalid credentials or account not activated
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPhone, input.Phone)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Phone:    input.Phone,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldUser:         session.User,
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
		FieldExpiresIn:    session.ExpiresIn,
	})
}

/*
RefreshToken issues a new token pair using a valid refresh token.

POST /api/auth/refresh-token

Description: Verifies the presented refresh token and, if the account is
still active, returns a fresh access/refresh pair.

Request:
  - Body: refreshTokenRequest (RefreshToken)

Response:
  - 200: Session: New token pair
  - 401: ErrUnauthorized: Missing, invalid, or expired refresh token
*/
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) {
	var input refreshTokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefreshToken, "is required"))
		return
	}

	session, err := handler.authService.RefreshToken(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
		FieldExpiresIn:    session.ExpiresIn,
	})
}

/*
Logout revokes the session bound to the presented refresh token.

POST /api/auth/logout

Description: Deletes the matching session row. Always acknowledges success,
even when the token was never recorded (idempotent).

Request:
  - Body: logoutRequest (RefreshToken, optional)

Response:
  - 200: Success: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input logoutRequest

	// The body is optional; a logout with no refresh token still succeeds.
	_ = requestutil.DecodeJSON(request, &input)

	if input.RefreshToken != "" {
		if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.Message(writer, http.StatusOK, "Logged out successfully", nil)
}

/*
Me returns the authenticated user's profile.

GET /api/auth/me

Response:
  - 200: User: Profile fields
  - 401: ErrUnauthorized: Authentication required
  - 404: USER_NOT_FOUND: Account no longer resolves
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.GetMe(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
