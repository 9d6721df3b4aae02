package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/apperr"
	"github.com/asamblea-eventos/backend/pkg/response"
)

// ContextClaims is the gin context key the JWT middleware stores *Claims under.
const ContextClaims = "auth_claims"

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the body for POST /usuarios.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"nombre_completo" binding:"required,max=100"`
	Role     string `json:"rol"`
}

// TokenResponse is the login response.
type TokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Handler handles auth and user endpoints.
type Handler struct {
	repo   *Repository
	jwt    *JWTService
	logger *zap.Logger
	debug  bool
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, logger *zap.Logger, debug bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, logger: logger, debug: debug}
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	if apperr.CodeOf(err) == apperr.CodeInternal {
		h.logger.Error(msg, zap.Error(err))
	}
	response.Error(c, err, h.debug)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		h.fail(c, err, "login lookup failed")
		return
	}
	if !user.Active || !CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "invalid username or password")
		return
	}

	token, err := h.jwt.Generate(user)
	if err != nil {
		h.logger.Error("sign token failed", zap.Error(err))
		response.Internal(c, "failed to generate token")
		return
	}
	h.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	response.OK(c, TokenResponse{Token: token, User: *user})
}

// Me handles GET /auth/me.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	user, err := h.repo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.fail(c, err, "get current user failed")
		return
	}
	response.OK(c, user)
}

// CreateUser handles POST /usuarios (admin only).
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	user, err := NewUser(req.Username, req.Password, req.FullName, req.Role)
	if err != nil {
		response.Error(c, err, h.debug)
		return
	}
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			response.Conflict(c, "username already taken")
			return
		}
		h.fail(c, err, "create user failed")
		return
	}
	response.Created(c, user)
}

// List handles GET /usuarios (admin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "list users failed")
		return
	}
	response.OK(c, list)
}

// NewUser validates account fields and hashes the password.
func NewUser(username, password, fullName, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)
	if username == "" || fullName == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "username and full name are required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperr.New(apperr.CodeInvalidInput, "password must be at least 8 characters")
	}
	r := models.RoleOperator
	switch models.Role(strings.ToLower(strings.TrimSpace(role))) {
	case "", models.RoleOperator:
	case models.RoleAdmin:
		r = models.RoleAdmin
	default:
		return nil, apperr.New(apperr.CodeInvalidInput, "rol must be admin or operador")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}
	return &models.User{Username: username, PasswordHash: hash, FullName: fullName, Role: r, Active: true}, nil
}

// ClaimsFrom returns the claims set by the JWT middleware.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok && claims != nil
}
