package auth

import (
	"net/http"
	"time"

	"expense_tracker/internal/api/handlers"
	"expense_tracker/internal/api/middlewares"
	"expense_tracker/internal/models"
	"expense_tracker/internal/services"
	"expense_tracker/pkg/utils"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	users        *services.UserService
	auth         *services.AuthService
	google       *services.GoogleAuthService
	cookieSecure bool
	frontendURL  string
	logger       *logrus.Logger
}

// NewHandler builds the auth and user handlers. google is nil when
// federated login is not configured.
func NewHandler(users *services.UserService, auth *services.AuthService, google *services.GoogleAuthService, cookieSecure bool, frontendURL string, logger *logrus.Logger) *Handler {
	return &Handler{
		users:        users,
		auth:         auth,
		google:       google,
		cookieSecure: cookieSecure,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

// FUNC TO REGISTER USERS
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	if err := h.setTokenCookies(w, user); err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}

	h.logger.WithField("user_id", user.ID).Info("user logged in")
	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{middlewares.AccessTokenCookie, middlewares.TokenSignatureCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: name == middlewares.TokenSignatureCookie,
			Secure:   h.cookieSecure,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			SameSite: http.SameSiteLaxMode,
		})
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	updated, err := h.users.Update(r.Context(), user.ID, req)
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (h *Handler) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		utils.WriteError(w, "Google login is not configured", http.StatusNotFound)
		return
	}

	url, err := h.google.LoginURL()
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) GoogleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		utils.WriteError(w, "Google login is not configured", http.StatusNotFound)
		return
	}

	query := r.URL.Query()
	if reason := query.Get("error"); reason != "" {
		utils.WriteError(w, "Google login was cancelled: "+reason, http.StatusUnauthorized)
		return
	}

	user, err := h.google.Callback(r.Context(), query.Get("state"), query.Get("code"))
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	if err := h.setTokenCookies(w, user); err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}

// setTokenCookies issues a token and splits it across two cookies: the
// header and payload stay readable by the frontend, the signature does not.
func (h *Handler) setTokenCookies(w http.ResponseWriter, user *models.User) error {
	token, err := h.auth.IssueToken(user)
	if err != nil {
		return err
	}
	headerPayload, signature, err := utils.SplitToken(token)
	if err != nil {
		return utils.Internal("could not create login token", err)
	}

	expires := time.Now().Add(h.auth.TokenTTL())
	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.AccessTokenCookie,
		Value:    headerPayload,
		Path:     "/",
		Secure:   h.cookieSecure,
		Expires:  expires,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.TokenSignatureCookie,
		Value:    signature,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		Expires:  expires,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
