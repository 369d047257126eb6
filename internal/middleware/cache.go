package middleware

import (
	"bytes"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/appointment-booking/internal/config"
)

// bodyCapture buffers the response body while forwarding it to the
// client, so a successful response can be stored after the handler ran.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// NewVersionedCache caches successful GET responses in Redis under a
// key that embeds a version counter. BumpVersion increments the counter
// whenever slot or booking state changes, which invalidates every
// cached entry at once without tracking which routes a mutation
// touched. TTL only garbage-collects entries of dead versions.
func NewVersionedCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	verKey := cfg.Prefix + ":ver"

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()

			ver, err := rdb.Get(ctx, verKey).Result()
			if err != nil {
				if err != redis.Nil {
					c.Logger().Warnf("cache: read version failed: %v", err)
					return next(c) // fail open
				}
				ver = "0"
			}
			key := cfg.Prefix + ":" + ver + ":" + c.Request().URL.RequestURI()

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK {
				if err := rdb.SetEx(context.Background(), key, cw.buf.Bytes(), cfg.TTL).Err(); err != nil {
					c.Logger().Warnf("cache: store %s failed: %v", key, err)
				}
			}
			return nil
		}
	}
}

// BumpVersion advances the cache version so every entry written under
// the old version becomes unreachable.
func BumpVersion(ctx context.Context, rdb *redis.Client, cfg config.CacheConfig) {
	if rdb == nil {
		return
	}
	// On failure the old version keeps serving until its TTL runs out.
	_ = rdb.Incr(ctx, cfg.Prefix+":ver").Err()
}
