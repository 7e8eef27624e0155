package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/identity"
	"github.com/lilpaf/Super-Barber-sub000/internal/middleware"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
	"github.com/lilpaf/Super-Barber-sub000/internal/validators"
)

type AuthHandler struct {
	users     *identity.GormDirectory
	jwtSecret string
	now       timezone.Clock

	// emailDomainOK is swapped out in tests to avoid DNS lookups.
	emailDomainOK func(email string) bool
}

func NewAuthHandler(users *identity.GormDirectory, jwtSecret string, now timezone.Clock) *AuthHandler {
	return &AuthHandler{
		users:         users,
		jwtSecret:     jwtSecret,
		now:           now,
		emailDomainOK: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"max=50"`
	Email     string `json:"email" binding:"required,email,max=100"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone" binding:"max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID          uint          `json:"id"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	Email       string        `json:"email"`
	PhoneNumber string        `json:"phone_number"`
	Roles       []models.Role `json:"roles"`
}

func newUserResponse(u *models.User, roles []models.Role) userResponse {
	if roles == nil {
		roles = []models.Role{}
	}
	return userResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Roles:       roles,
	}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.emailDomainOK(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The e-mail domain does not look valid.")
		return
	}

	existing, err := h.users.FindUserByEmail(ctx, email)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	if existing != nil {
		httperr.Write(c, http.StatusConflict, "email_taken", "An account with this e-mail already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Something went wrong.")
		return
	}

	user := models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(req.Phone),
		PasswordHash: string(hashed),
	}
	if err := h.users.CreateUser(ctx, &user); err != nil {
		if httperr.IsUniqueConflict(err) {
			httperr.Write(c, http.StatusConflict, "email_taken", "An account with this e-mail already exists.")
			return
		}
		httperr.WriteError(c, err)
		return
	}

	// re-read so the token carries the stored session version
	stored, err := h.users.FindUser(ctx, user.ID)
	if err != nil || stored == nil {
		httperr.Internal(c, "failed_to_create_user", "Something went wrong.")
		return
	}

	h.respondWithToken(c, http.StatusCreated, stored, nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	user, err := h.users.FindUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	if user == nil || user.IsDeleted {
		httperr.Unauthorized(c, "invalid_credentials", "Wrong e-mail or password.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Wrong e-mail or password.")
		return
	}

	roles, err := h.users.Roles(ctx, user.ID)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, user, roles)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User, roles []models.Role) {
	token, err := middleware.IssueToken(h.jwtSecret, user, roles, h.now())
	if err != nil {
		zap.L().Error("token signing failed", zap.Uint("user_id", user.ID), zap.Error(err))
		httperr.Internal(c, "failed_to_generate_token", "Something went wrong.")
		return
	}

	c.JSON(status, gin.H{
		"user":  newUserResponse(user, roles),
		"token": token,
	})
}
