package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dynform/internal/form"
)

const (
	SessionCookie = "dynform_session"
	sessionKey    = "dynform.session"
)

// RequestLogger пишет access-лог через zap.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		if status >= http.StatusInternalServerError {
			log.Errorw("request", fields...)
			return
		}
		log.Debugw("request", fields...)
	}
}

// SessionMiddleware находит (или создаёт) сессию формы по cookie.
func SessionMiddleware(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		newID, sess := app.Sessions.Get(c.Request.Context(), id)
		if newID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, newID, 0, "/", "", false, true)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *form.Session {
	return c.MustGet(sessionKey).(*form.Session)
}
