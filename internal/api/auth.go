package api

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/session"
)

const minPasswordLength = 6

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (r registerRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.Validation("name is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return apperr.Validation("a valid email address is required")
	}
	if len(r.Password) < minPasswordLength {
		return apperr.Validationf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(c, err)
		return
	}
	hashed, err := session.HashPassword(req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Password: hashed,
		Role:     models.RoleCustomer,
	}
	if err := s.users.CreateUser(c.Request.Context(), user); err != nil {
		s.writeError(c, err)
		return
	}
	s.respondWithToken(c, http.StatusCreated, user)
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	var user *models.User
	err := s.remote.Do(c.Request.Context(), "load user", func(ctx context.Context) error {
		var err error
		user, err = s.users.UserByEmail(ctx, req.Email)
		return err
	})
	if apperr.Is(err, apperr.KindNotFound) || (err == nil && !session.CheckPassword(user.Password, req.Password)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong email or password"})
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondWithToken(c, http.StatusOK, user)
}

func (s *Server) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		s.logger.Error("sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"user": user, "token": token})
}

func (s *Server) loadUser(ctx context.Context, id string) (*models.User, error) {
	var user *models.User
	err := s.remote.Do(ctx, "load user", func(ctx context.Context) error {
		var err error
		user, err = s.users.User(ctx, id)
		return err
	})
	return user, err
}

func (s *Server) getProfile(c *gin.Context) {
	user, err := s.loadUser(c.Request.Context(), sessionFrom(c).UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			s.writeError(c, apperr.Validation("a valid email address is required"))
			return
		}
	}
	sess := sessionFrom(c)
	err := s.remote.Do(c.Request.Context(), "update profile", func(ctx context.Context) error {
		return s.users.UpdateProfile(ctx, sess.UserID,
			strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), strings.TrimSpace(req.Phone))
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.getProfile(c)
}
