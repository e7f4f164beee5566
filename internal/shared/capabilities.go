package shared

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// Finance capabilities granted by the upstream identity gateway.
const (
	CapFinanceView   = "finance.view"
	CapFinanceCreate = "finance.create"
	CapFinanceEdit   = "finance.edit"
	CapFinancePost   = "finance.post"
)

// Capabilities is the explicit permission set for a request. Ledger and
// report code receives it as a parameter instead of consulting ambient
// state, so the engine stays independently testable.
type Capabilities struct {
	grants map[string]struct{}
	userID int64
}

// NewCapabilities builds a capability set from granted scope names.
func NewCapabilities(userID int64, scopes ...string) Capabilities {
	grants := make(map[string]struct{}, len(scopes))
	for _, s := range scopes {
		s = strings.TrimSpace(s)
		if s != "" {
			grants[s] = struct{}{}
		}
	}
	return Capabilities{grants: grants, userID: userID}
}

// Has reports whether the capability was granted.
func (c Capabilities) Has(name string) bool {
	_, ok := c.grants[name]
	return ok
}

// UserID identifies the acting user, zero when anonymous.
func (c Capabilities) UserID() int64 {
	return c.userID
}

type capabilityContextKey struct{}

// ContextWithCapabilities stores the capability set in context.
func ContextWithCapabilities(ctx context.Context, caps Capabilities) context.Context {
	return context.WithValue(ctx, capabilityContextKey{}, caps)
}

// CapabilitiesFromContext extracts the capability set from context.
func CapabilitiesFromContext(ctx context.Context) Capabilities {
	caps, _ := ctx.Value(capabilityContextKey{}).(Capabilities)
	return caps
}

// Header names populated by the gateway in front of this service.
const (
	headerScopes = "X-Meridian-Scopes"
	headerUserID = "X-Meridian-User"
)

// CapabilityMiddleware translates gateway headers into a Capabilities value.
// Authentication itself happens upstream; this service only consumes the
// result.
func CapabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var userID int64
		if raw := r.Header.Get(headerUserID); raw != "" {
			userID, _ = strconv.ParseInt(raw, 10, 64)
		}
		scopes := strings.Split(r.Header.Get(headerScopes), ",")
		ctx := ContextWithCapabilities(r.Context(), NewCapabilities(userID, scopes...))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
