package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	user "publisher-backoffice/internal/domains/user"
	"publisher-backoffice/internal/shared/middleware"
	"publisher-backoffice/internal/shared/response"
	"publisher-backoffice/internal/shared/utils"
	"publisher-backoffice/pkg/logger"
)

// CookieConfig controls the session cookie written on login.
type CookieConfig struct {
	Name   string
	Secure bool
}

type UserHandler struct {
	service user.Service
	cookie  CookieConfig
}

func NewUserHandler(svc user.Service, cookie CookieConfig) *UserHandler {
	return &UserHandler{service: svc, cookie: cookie}
}

// ════════════════════════════════════════════════════════════════
// POST /v1/auth/register
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	principal, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Registration successful", principal)
}

// ════════════════════════════════════════════════════════════════
// POST /v1/auth/login
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, session, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		logger.Info("login rejected", map[string]interface{}{
			"username": req.Username,
			"ip":       c.ClientIP(),
		})
		response.FromError(c, err)
		return
	}

	h.setSessionCookie(c, session)
	response.Success(c, http.StatusOK, "Login successful", res)
}

// ════════════════════════════════════════════════════════════════
// POST /v1/auth/logout
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.CurrentToken(c)); err != nil {
		response.FromError(c, err)
		return
	}

	h.clearSessionCookie(c)
	response.Success(c, http.StatusOK, "Logged out successfully", nil)
}

// ════════════════════════════════════════════════════════════════
// GET /v1/auth/me
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Me(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), principal.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get profile successfully", profile)
}

// ════════════════════════════════════════════════════════════════
// GET /v1/admin/users?page=1&page_size=10
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, size := utils.PageQuery(c)

	result, err := h.service.ListUsers(c.Request.Context(), page, size)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessPage(c, "Get users successfully", result)
}

// A remembered session outlives the browser; otherwise the cookie is
// dropped when the browser closes.
func (h *UserHandler) setSessionCookie(c *gin.Context, session *user.Session) {
	maxAge := 0
	if session.Remember {
		maxAge = int(time.Until(session.ExpiresAt).Seconds())
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.Token, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *UserHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}
