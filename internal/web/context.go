package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/ropeworks/internal/core"
)

// WithRequestMetadata copies the client address and User-Agent into ctx so
// import runs can log who started them.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	// RemoteAddr was already rewritten by TrustedRealIP
	ctx = core.ContextWithIPAddress(ctx, r.RemoteAddr)
	return core.ContextWithUserAgent(ctx, r.Header.Get("User-Agent"))
}
