package httpgin

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avelorn/staygo/internal/domain"
	"github.com/avelorn/staygo/internal/service/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "staygo_session"

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set("request_id", reqID)

		c.Next()
	}
}

func CORS() gin.HandlerFunc {
	cfg := cors.Config{
		// the session cookie needs credentials, so the origin is echoed
		// back instead of the wildcard
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Idempotency-Key",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"ETag",
			"Cache-Control",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(cfg)
}

func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()
		reqID, _ := c.Get("request_id")

		attrs := []slog.Attr{
			slog.Int("status", status),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.String("ua", c.Request.UserAgent()),
			slog.Any("request_id", reqID),
			slog.Duration("latency", latency),
			slog.Int("bytes_out", c.Writer.Size()),
		}

		// convert []slog.Attr to []any for slog.Group variadic parameter
		anyAttrs := make([]any, len(attrs))
		for i := range attrs {
			anyAttrs[i] = attrs[i]
		}

		if len(c.Errors) > 0 {
			logger.Error("http", slog.Group("http", anyAttrs...),
				slog.String("errors", c.Errors.String()))
		} else {
			logger.Info("http", slog.Group("http", anyAttrs...))
		}
	}
}

// SessionMiddleware resolves the session cookie, if any, and stashes the
// identity in the gin context. Missing or invalid cookies are not an error
// here; RequireAuth decides that per route.
func SessionMiddleware(authSvc *auth.Service, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(sessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		token, ok := verifyCookie(raw, secret)
		if !ok {
			c.Next()
			return
		}

		sess, err := authSvc.Resolve(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set("session", sess)
		c.Set("session_token", token)

		c.Next()
	}
}

// RequireAuth aborts with 401 when SessionMiddleware resolved no identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessionFrom(c); !ok {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				ErrorResponse{Message: "Authentication required"},
			)
			return
		}

		c.Next()
	}
}

func sessionFrom(c *gin.Context) (*domain.Session, bool) {
	v, ok := c.Get("session")
	if !ok {
		return nil, false
	}

	sess, ok := v.(*domain.Session)
	return sess, ok
}

// sealCookie binds the session token to the deployment's session secret so
// a forged cookie fails before the redis lookup.
func sealCookie(token, secret string) string {
	return token + "." + signToken(token, secret)
}

func verifyCookie(raw, secret string) (string, bool) {
	token, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", false
	}

	want := signToken(token, secret)
	if !hmac.Equal([]byte(sig), []byte(want)) {
		return "", false
	}

	return token, true
}

func signToken(token, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
