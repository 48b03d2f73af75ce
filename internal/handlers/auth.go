package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rlemos/roombook/internal/database"
	"github.com/rlemos/roombook/internal/handlers/dto"
	"github.com/rlemos/roombook/internal/middleware"
	"github.com/rlemos/roombook/internal/models"
	"github.com/rlemos/roombook/pkg/auth"
)

type AuthHandler struct {
	db       *database.Database
	sessions *auth.SessionManager
}

func NewAuthHandler(db *database.Database, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.db.FindUserByUsername(req.Username); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
		return
	}
	if _, err := h.db.FindUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already in use"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot hash password"})
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := h.db.SaveUser(user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered",
		"user":    formatSafeUser(user),
	})
}

// Login checks the credentials, records last_login and issues the session
// cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.FindUserByUsername(req.Username)
	if err != nil || !user.Active {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := h.db.UpdateLastLogin(user.ID.String()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update last login"})
		return
	}

	token, err := h.sessions.Start(c.Request.Context(), user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
		return
	}
	c.SetCookie(auth.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    formatSafeUser(user),
	})
}

// Logout always succeeds; a dead cookie just gets cleared.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(auth.CookieName); err == nil && token != "" {
		if userID, err := h.sessions.Validate(c.Request.Context(), token); err == nil {
			h.sessions.End(c.Request.Context(), userID)
		}
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated user, ending sessions of deactivated
// accounts on the way.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	user, err := h.db.GetUser(userID.String())
	if err != nil || !user.Active {
		h.sessions.End(c.Request.Context(), userID.String())
		c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": formatSafeUser(user)})
}

// Check reports authentication state without ever failing the request.
func (h *AuthHandler) Check(c *gin.Context) {
	token, err := c.Cookie(auth.CookieName)
	if err == nil && token != "" {
		if userID, err := h.sessions.Validate(c.Request.Context(), token); err == nil {
			if user, err := h.db.GetUser(userID); err == nil && user.Active {
				c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": formatSafeUser(user)})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}
