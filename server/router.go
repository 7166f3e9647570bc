package server

import (
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/techagentng/civilink/config"
	errs "github.com/techagentng/civilink/errors"
	"github.com/techagentng/civilink/server/response"
)

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	if gin.Mode() != gin.TestMode {
		// LoggerWithFormatter writes to gin.DefaultWriter, stdout by default
		r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC1123),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		}))
	}
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.Config.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = s.Config.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))
	r.MaxMultipartMemory = 8 << 20

	if s.Config.MediaDriver == config.MediaLocal || s.Config.MediaDriver == "" {
		r.Static("/media", s.Config.MediaDir)
	}

	s.defineRoutes(r)
	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	limitRate := s.limitAuthRate()

	apirouter := router.Group("/api/v1")
	apirouter.GET("/", s.handleIndex())
	apirouter.POST("/auth/login", limitRate, s.handleLogin())
	apirouter.POST("/auth/signup", limitRate, s.handleSignup())
	apirouter.POST("/auth/otp", limitRate, s.handleSendOTP())
	apirouter.POST("/auth/password-strength", s.handlePasswordStrength())
	apirouter.GET("/complaints", s.handleListComplaints())
	apirouter.GET("/complaints/:id", s.handleGetComplaint())
	apirouter.GET("/complaints/:id/share", s.handleShareComplaint())
	apirouter.GET("/issues/:status", s.handleListByStatus())
	apirouter.GET("/section/:category", s.handleListBySection())
	apirouter.GET("/dashboard", s.handleDashboard())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/auth/logout", s.handleLogout())
	authorized.GET("/profile", s.handleShowProfile())
	authorized.POST("/complaint", s.handleSubmitComplaint())
	authorized.PUT("/complaints/:id/like", s.handleLikeComplaint())
	authorized.POST("/complaints/:id/comments", s.handleCommentComplaint())
	authorized.PUT("/complaints/:id/status", s.handleUpdateStatus())

	router.NoRoute(func(c *gin.Context) {
		response.JSON(c, "", http.StatusNotFound, nil, errs.Notice("404", "Oops! Page not found", http.StatusNotFound))
	})
}

// limitAuthRate throttles the credential endpoints per client address.
func (s *Server) limitAuthRate() gin.HandlerFunc {
	if s.Config.LoginRateLimit == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: s.Config.LoginRateLimit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      keyFunc,
	})
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
