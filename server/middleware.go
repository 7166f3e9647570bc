package server

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/civilink/errors"
	"github.com/techagentng/civilink/models"
	"github.com/techagentng/civilink/server/response"
	"go.uber.org/zap"
)

const (
	sessionKey     = "session"
	accessTokenKey = "access_token"
)

// Authorize resolves the bearer token to the current session.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		session, err := s.Sessions.GetSession(c.Request.Context(), accessToken)
		if err != nil {
			var apiErr *errs.Error
			if stderrors.As(err, &apiErr) {
				respondAndAbort(c, "", apiErr.Status, nil, apiErr)
				return
			}
			s.Logger.Error("session lookup failed", zap.Error(err))
			respondAndAbort(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		c.Set(sessionKey, session)
		c.Set(accessTokenKey, accessToken)
		c.Next()
	}
}

func currentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return strings.TrimSpace(authHeader[len(prefix):])
	}
	return ""
}
