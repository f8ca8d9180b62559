package api

import (
	"context"
	"strings"

	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/aydinemil/finance-tracker/internal/contextutil"
	"github.com/0xcafe-io/iz"
	"github.com/google/uuid"
)

// AuthenticatedHandler receives the caller identity explicitly, there is
// no ambient current-user lookup anywhere below the api package.
type AuthenticatedHandler func(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder

// Authenticated wraps a handler with Bearer token resolution. Any failure
// short-circuits with a 403 envelope before the handler runs.
func (api *Api) Authenticated(handler AuthenticatedHandler) func(*iz.Request) iz.Responder {
	return func(r *iz.Request) iz.Responder {
		ctx := requestContext(r)

		rawToken := bearerToken(r)
		if rawToken == "" {
			return respondStatusError(r, 403, "Authorization header with a Bearer token is required.")
		}

		caller, err := api.Service.ResolveIdentity(ctx, rawToken)
		if err != nil {
			return respondStatusError(r, 403, messageOf(err))
		}

		return handler(ctx, caller, r)
	}
}

func requestContext(r *iz.Request) context.Context {
	return contextutil.WithTraceID(r.Context(), uuid.NewString())
}

func bearerToken(r *iz.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
