package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/civilink/errors"
	"github.com/techagentng/civilink/models"
	"github.com/techagentng/civilink/server/response"
	"go.uber.org/zap"
)

func (s *Server) handleIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "Welcome to CiviLink", http.StatusOK, gin.H{
			"sections": models.Categories,
			"issues":   models.Statuses,
		}, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		resp, apiErr := s.AuthService.Login(c.Request.Context(), &req)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Login successful", http.StatusOK, resp, nil)
	}
}

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		resp, apiErr := s.AuthService.Signup(c.Request.Context(), &req)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, gin.H{
				"password_strength": s.AuthService.PasswordStrength(req.Password),
			}, apiErr)
			return
		}
		response.JSON(c, "Signup successful", http.StatusCreated, resp, nil)
	}
}

func (s *Server) handleSendOTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.OTPRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		if apiErr := s.AuthService.SendOTP(c.Request.Context(), &req); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "OTP sent to your mobile number", http.StatusOK, nil, nil)
	}
}

func (s *Server) handlePasswordStrength() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PasswordStrengthRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}
		response.JSON(c, "", http.StatusOK, s.AuthService.PasswordStrength(req.Password), nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString(accessTokenKey)
		if err := s.AuthService.Logout(c.Request.Context(), token); err != nil {
			s.Logger.Warn("logout failed", zap.Error(err))
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := currentSession(c)
		if session == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		response.JSON(c, "", http.StatusOK, session, nil)
	}
}
