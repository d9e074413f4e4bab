package handlers

import (
	"net/http"
	"time"

	"github.com/cristianadrielbraun/qrlogo/internal/logger"
	"github.com/cristianadrielbraun/qrlogo/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// HeaderRequestID carries the request id back to the client.
	HeaderRequestID = "X-Request-ID"
	// SessionCookie names the cookie holding the form session id.
	SessionCookie = "qr_session"

	sessionKey = "qr.session"
)

// RequestLogger adds a request id to the context and logs request/response info.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.NewNop()
	}
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		log := base.With(zap.String(logger.KeyRequestID, requestID))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))
		c.Header(HeaderRequestID, requestID)

		log.Debug("request received",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("remote_addr", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()))

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("size", c.Writer.Size()),
		}
		switch {
		case status >= 500:
			log.Error("request completed", fields...)
		case status >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

// Recovery turns panics into 500 responses and logs them.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.FromContext(c.Request.Context(), base).Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path))
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// Sessions attaches the caller's form session, starting a new one when the
// cookie is missing or refers to an evicted session.
func (h *Handler) Sessions() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		ctrl, created := h.sessions.GetOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, ctrl.ID(), 0, "/", "", c.Request.TLS != nil, true)
			h.logger(c).Debug("session started", zap.String(logger.KeySession, ctrl.ID()))
		}

		log := h.logger(c).With(zap.String(logger.KeySession, ctrl.ID()))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))
		c.Set(sessionKey, ctrl)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *session.Controller {
	return c.MustGet(sessionKey).(*session.Controller)
}
