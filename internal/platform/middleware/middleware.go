// Copyright (c) 2026 Souq. All rights reserved.

/*
Package middleware holds the cross-cutting HTTP chain: request-ID
correlation, structured request logging, per-IP rate limiting, panic
recovery, CORS, authentication, and the role-policy authorization gate.

The chain order matters. RequestID and StructuredLogger run first so every
later stage logs with correlation fields; Authenticate runs before any
gate that reads claims.
*/
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/souqhq/souq/internal/platform/apperr"
	"github.com/souqhq/souq/internal/platform/constants"
	"github.com/souqhq/souq/internal/platform/ctxutil"
	"github.com/souqhq/souq/internal/platform/respond"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Honor a client-supplied ID so gateway traces line up.
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				uuidV7, err := uuid.NewV7()
				if err != nil {
					requestID = uuid.New().String()
				} else {
					requestID = uuidV7.String()
				}
			}

			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger logs every request status and performance metrics.
// It also injects a request-specific logger into the context.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case recorder.status >= 500:
				level = slog.LevelError
			case recorder.status >= 400:
				level = slog.LevelWarn
			}

			attrs := []any{
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if claims := ctxutil.GetAuthUser(ctx); claims != nil {
				attrs = append(attrs, slog.String("user_id", claims.UserID()))
			}

			requestLogger.Log(ctx, level, "http_request_finished", attrs...)
		})
	}
}

// # Rate Limiting

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	mu      sync.Mutex
	clients = make(map[string]*rateLimitClient)
)

// RateLimit applies a per-IP token bucket. Idle entries are reaped by a
// background sweep that stops when the application context is cancelled.
func RateLimit(context context.Context) func(http.Handler) http.Handler {
	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				mu.Lock()
				for ip, client := range clients {
					if time.Since(client.lastSeen) > constants.RateLimitClientTTL {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			case <-context.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			clientIP := RealIP(request)

			mu.Lock()
			client, found := clients[clientIP]
			if !found {
				client = &rateLimitClient{
					limiter: rate.NewLimiter(
						rate.Limit(constants.DefaultRateLimitRPS),
						constants.DefaultRateLimitBurst,
					),
				}
				clients[clientIP] = client
			}
			client.lastSeen = time.Now()
			allowed := client.limiter.Allow()
			mu.Unlock()

			if !allowed {
				respond.Error(writer, request, apperr.RateLimited(1))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability & Safety

// PanicRecovery converts a handler panic into a logged 500 response so one
// bad request cannot take the process down.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := make([]byte, 2048)
					length := runtime.Stack(stack, false)

					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", err),
						slog.String("stack", string(stack[:length])),
					)

					respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", err)))
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
	ExtraAllowedOrigins() []string
}

// CORS handles Cross-Origin Resource Sharing based on application environment.
//
// Development allows any origin. Production allows the souq.app domain plus
// whatever EXTRA_ORIGINS lists (the admin dashboard runs on its own host).
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Check the Origin header
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Check if the origin is allowed (strict in PROD, open in DEV)
			isAllowed := cfg.IsDevelopment() || strings.HasSuffix(origin, "souq.app")
			if !isAllowed {
				for _, extra := range cfg.ExtraAllowedOrigins() {
					if origin == extra {
						isAllowed = true
						break
					}
				}
			}

			// 3. Inject standard CORS headers if authorized
			if isAllowed {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", "300")
			}

			// 4. Handle pre-flight requests (OPTIONS)
			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Middleware Helpers

// RealIP extracts client IP, respecting common proxy headers.
func RealIP(request *http.Request) string {

	// Check standard proxy headers first
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	// Fallback to the direct connection's address
	host, _, _ := net.SplitHostPort(request.RemoteAddr)
	return host
}
