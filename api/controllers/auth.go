package controllers

import (
	"net/http"
	"time"

	"github.com/priyansupat/farmdirect-backend/api/middleware"
	"github.com/priyansupat/farmdirect-backend/api/responses"
	"github.com/priyansupat/farmdirect-backend/api/validators"
	"github.com/priyansupat/farmdirect-backend/internal/auth"
	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
)

type registerPayload struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required,oneof=farmer consumer"`
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshPayload struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutPayload struct {
	AccessID string `json:"access_id" validate:"required"`
}

type profilePayload struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

type userView struct {
	ID        int64          `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	FullName  string         `json:"full_name"`
	Phone     *string        `json:"phone,omitempty"`
	Address   *string        `json:"address,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func newUserView(user *models.User) userView {
	return userView{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Address:   user.Address,
		CreatedAt: user.CreatedAt,
	}
}

// Register creates a farmer or consumer account.
func Register(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload registerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(payload.Role)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		user, err := svc.Register(ctx, auth.RegisterInput{
			Username: payload.Username,
			Email:    payload.Email,
			Password: payload.Password,
			Role:     role,
			FullName: payload.FullName,
			Phone:    payload.Phone,
			Address:  payload.Address,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newUserView(user))
	}
}

// Login verifies credentials and returns an access/refresh token pair.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload loginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, pair, err := svc.Login(ctx, payload.Username, payload.Password)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"user":   newUserView(user),
			"tokens": pair,
		})
	}
}

// Refresh rotates the session and mints a fresh token pair.
func Refresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload refreshPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pair, err := svc.Refresh(ctx, payload.AccessToken, payload.RefreshToken)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, pair)
	}
}

// Logout revokes the session tied to the provided access ID.
func Logout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload logoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Logout(ctx, payload.AccessID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// UpdateProfile patches the caller's profile fields.
func UpdateProfile(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := middleware.UserIDFromContext(ctx)

		var payload profilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.UpdateProfile(ctx, userID, auth.ProfileInput{
			FullName: payload.FullName,
			Phone:    payload.Phone,
			Address:  payload.Address,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newUserView(user))
	}
}
