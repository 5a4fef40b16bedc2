package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SpicyTech2823/Car-rental/applications/auth"

	"github.com/labstack/echo/v4"
)

// Authenticator is the part of auth.Service the auth routes call.
type Authenticator interface {
	SignUp(ctx context.Context, p auth.SignUpParams) (*auth.Result, error)
	SignInWithPassword(ctx context.Context, email, password string) (*auth.Result, error)
	SetSession(ctx context.Context, accessToken, refreshToken string) (*auth.Result, error)
	SignOut(ctx context.Context, id *auth.Identity) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	UpdateUser(ctx context.Context, resetToken, password, confirm string) error
	RequestLoginOTP(ctx context.Context, email string) error
	VerifyLoginOTP(ctx context.Context, email, code string) (*auth.Result, error)
}

type AuthController struct {
	log *slog.Logger
	svc Authenticator
}

func NewAuthController(log *slog.Logger, svc Authenticator) *AuthController {
	return &AuthController{log: log, svc: svc}
}

type loginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshParams struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type forgotParams struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirectTo"`
}

type resetParams struct {
	AccessToken     string `json:"accessToken"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type verifyParams struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *AuthController) SignUp(c echo.Context) error {
	params := new(auth.SignUpParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	res, err := h.svc.SignUp(c.Request().Context(), *params)
	if err != nil {
		return respondError(c, err, "Failed to create account")
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthController) Login(c echo.Context) error {
	params := new(loginParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	h.log.Info(fmt.Sprintf("[auth-controller] Login initiated for email: %s", params.Email))

	res, err := h.svc.SignInWithPassword(c.Request().Context(), params.Email, params.Password)
	if err != nil {
		return respondError(c, err, "Login failed")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AuthController) Refresh(c echo.Context) error {
	params := new(refreshParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	res, err := h.svc.SetSession(c.Request().Context(), params.AccessToken, params.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Session expired, please log in again", Redirect: "/login"})
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AuthController) ForgotPassword(c echo.Context) error {
	params := new(forgotParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	if err := h.svc.ResetPasswordForEmail(c.Request().Context(), params.Email, params.RedirectTo); err != nil {
		return respondError(c, err, "Failed to send reset email")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "If that account exists, a reset link is on its way."})
}

// ResetPassword completes recovery and signs the user out everywhere.
func (h *AuthController) ResetPassword(c echo.Context) error {
	params := new(resetParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	err := h.svc.UpdateUser(c.Request().Context(), params.AccessToken, params.Password, params.ConfirmPassword)
	if err != nil {
		return respondError(c, err, "Failed to reset password")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated. Please log in again.", "redirect": "/login"})
}

// AdminLogin sends the admin magic link.
func (h *AuthController) AdminLogin(c echo.Context) error {
	params := new(loginParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	if err := h.svc.RequestLoginOTP(c.Request().Context(), params.Email); err != nil {
		return respondError(c, err, "Failed to send OTP. Please try again.")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Check your email for the login link!"})
}

func (h *AuthController) AdminVerify(c echo.Context) error {
	params := new(verifyParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	res, err := h.svc.VerifyLoginOTP(c.Request().Context(), params.Email, params.Code)
	if err != nil {
		return respondError(c, err, "OTP verification failed")
	}
	return c.JSON(http.StatusOK, res)
}

// Session returns the caller resolved by the JWT middleware.
func (h *AuthController) Session(c echo.Context) error {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "No active session", Redirect: "/login"})
	}
	return c.JSON(http.StatusOK, id)
}

func (h *AuthController) Logout(c echo.Context) error {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "No active session", Redirect: "/login"})
	}
	if err := h.svc.SignOut(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Failed to log out")
	}
	return c.NoContent(http.StatusNoContent)
}
