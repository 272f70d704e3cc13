// Copyright (c) 2026 Souq. All rights reserved.

package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/souqhq/souq/internal/platform/constants"
	"github.com/souqhq/souq/internal/platform/ctxutil"
)

// # Response Caching

// maxCachedBodyBytes caps the payload size stored per key so a single huge
// listing cannot evict the rest of the cache.
const maxCachedBodyBytes = 256 * 1024

type cacheRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (recorder *cacheRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *cacheRecorder) Write(payload []byte) (int, error) {
	if recorder.buf.Len() < maxCachedBodyBytes {
		recorder.buf.Write(payload)
	}
	return recorder.ResponseWriter.Write(payload)
}

/*
ResponseCache serves public catalog GET responses from Redis.

Successful JSON responses are stored under a key derived from the request
path and query string, so every distinct filter combination caches
independently. Only anonymous GET requests are cached; authenticated
requests bypass the cache entirely because their payloads can carry
viewer-specific data.

Cache failures are logged and ignored; Redis being down degrades to
uncached reads, never to request failures.
*/
func ResponseCache(client *redis.Client, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Only anonymous GET traffic is cacheable
			if request.Method != http.MethodGet || ctxutil.GetAuthUser(request.Context()) != nil {
				next.ServeHTTP(writer, request)
				return
			}

			key := cacheKey(request)

			// 1. Serve from cache on a hit
			if body, err := client.Get(request.Context(), key).Bytes(); err == nil {
				writer.Header().Set("Content-Type", "application/json; charset=utf-8")
				writer.Header().Set("X-Cache", "HIT")
				writer.WriteHeader(http.StatusOK)
				_, _ = writer.Write(body)
				return
			}

			// 2. On a miss, record the downstream response
			recorder := &cacheRecorder{ResponseWriter: writer, status: http.StatusOK}
			writer.Header().Set("X-Cache", "MISS")

			next.ServeHTTP(recorder, request)

			// 3. Store only complete successful payloads
			if recorder.status != http.StatusOK || recorder.buf.Len() >= maxCachedBodyBytes {
				return
			}

			if err := client.SetEx(request.Context(), key, recorder.buf.Bytes(), ttl).Err(); err != nil {
				ctxutil.GetLogger(request.Context()).Warn("response_cache_store_failed",
					slog.String("key", key),
					slog.Any("error", err),
				)
			}
		})
	}
}

// cacheKey reduces path + query to a fixed-size Redis key.
func cacheKey(request *http.Request) string {
	sum := sha1.Sum([]byte(request.URL.Path + "?" + request.URL.RawQuery))
	return fmt.Sprintf("%s%x", constants.RedisPrefixCatalogCache, sum)
}
