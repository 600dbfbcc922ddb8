package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fairgroundhq/trellis/pkg/context"
)

const (
	// HeaderUserID is the header key for the authenticated user id
	HeaderUserID = "X-User-ID"
	// HeaderUserRole is the header key for the authenticated user's role
	HeaderUserRole = "X-User-Role"
)

// Context copies request identity and metadata into the request context.
// Authentication happens upstream; the gateway forwards the resolved user
// id and role as headers.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			ctx = context.SetRequestID(ctx, requestID)
			ctx = context.SetMethod(ctx, req.Method)
			ctx = context.SetRoute(ctx, req.URL.Path)
			ctx = context.SetRemoteIP(ctx, c.RealIP())
			ctx = context.SetUserID(ctx, req.Header.Get(HeaderUserID))
			ctx = context.SetUserRole(ctx, req.Header.Get(HeaderUserRole))

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
