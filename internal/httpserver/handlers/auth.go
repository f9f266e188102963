package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type registerResponse struct {
	Message string          `json:"message"`
	User    profileResponse `json:"user"`
}

type loginUser struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

type loginResponse struct {
	User loginUser `json:"user"`
}

type refreshResponse struct {
	NewAccessToken string `json:"new_access_token"`
}

func toProfile(p domain.Profile) profileResponse {
	return profileResponse{Username: p.Username, Email: p.Email}
}

func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decode(r, &req); err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		u, err := d.Auth.Register(r.Context(), service.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		JSON(w, http.StatusCreated, registerResponse{
			Message: "User created",
			User:    toProfile(u.Profile()),
		})
	}
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decode(r, &req); err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		res, err := d.Auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}

		JSON(w, http.StatusCreated, loginResponse{User: loginUser{
			AccessToken:  res.AccessToken,
			RefreshToken: res.RefreshToken,
			Username:     res.User.Username,
			Email:        res.User.Email,
		}})
	}
}

// Me returns the profile of the access token's subject.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFrom(r.Context())
		if !ok {
			Fail(w, r, d.Logger, domain.ErrMissingToken)
			return
		}

		u, err := d.Auth.WhoAmI(r.Context(), id.UserID)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}
		JSON(w, http.StatusOK, toProfile(u.Profile()))
	}
}

// RefreshToken trades a refresh token for a new access token.
func RefreshToken(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFrom(r.Context())

		token, err := d.Auth.Refresh(r.Context(), id)
		if err != nil {
			Fail(w, r, d.Logger, err)
			return
		}
		JSON(w, http.StatusOK, refreshResponse{NewAccessToken: token})
	}
}
