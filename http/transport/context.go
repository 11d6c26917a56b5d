package transport

import (
	"context"
	"net/http"
	"sync"

	"github.com/amp-labs/amp-iterator/contexts"
)

type contextKey string

const contextKeyClient contextKey = "http-client"

//nolint:gochecknoglobals
var defaultClient = sync.OnceValue(func() *http.Client {
	return NewClient(context.Background())
})

// WithClient returns a context whose GetClient yields client.
func WithClient(ctx context.Context, client *http.Client) context.Context {
	return contexts.WithValue(ctx, contextKeyClient, client)
}

// GetClient returns the client stored by WithClient, or a process-wide client
// built by NewClient on first use.
func GetClient(ctx context.Context) *http.Client {
	if client, ok := contexts.GetValue[contextKey, *http.Client](ctx, contextKeyClient); ok && client != nil {
		return client
	}

	return defaultClient()
}
