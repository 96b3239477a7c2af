package middleware

import (
	"strings"

	"companion-chat-be/internal/entity"
	"companion-chat-be/internal/pkg/serverutils"
	"companion-chat-be/internal/service"
	"companion-chat-be/internal/session"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalIdentity  = "identity"
	LocalSessionID = "session_id"
)

// IdentityResolver resolves the caller's identity on every request: the
// session cookie first (no network call), then a bearer token validated
// against the identity provider. Resolution failure is not an error here;
// guarded routes use RequireAuth.
func IdentityResolver(store session.Store, codec *session.CookieCodec, auth service.IAuthService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ident, sid := fromCookie(ctx, store, codec); ident != nil {
			ctx.Locals(LocalIdentity, ident)
			ctx.Locals(LocalSessionID, sid)
			return ctx.Next()
		}

		if token := bearerToken(ctx.Get("Authorization")); token != "" {
			ident, err := auth.ResolveToken(ctx.Context(), token)
			if err == nil && ident.Valid() {
				ctx.Locals(LocalIdentity, ident)
			}
		}
		return ctx.Next()
	}
}

// RequireAuth guards a route group; unauthenticated callers get 401.
func RequireAuth(ctx *fiber.Ctx) error {
	if Identity(ctx) == nil {
		return serverutils.NewHTTPError(fiber.StatusUnauthorized, "unauthenticated")
	}
	return ctx.Next()
}

// Identity returns the resolved identity, or nil.
func Identity(ctx *fiber.Ctx) *entity.Identity {
	ident, _ := ctx.Locals(LocalIdentity).(*entity.Identity)
	return ident
}

// SessionID returns the server-side session id when the identity came from
// the cookie, else "".
func SessionID(ctx *fiber.Ctx) string {
	sid, _ := ctx.Locals(LocalSessionID).(string)
	return sid
}

func fromCookie(ctx *fiber.Ctx, store session.Store, codec *session.CookieCodec) (*entity.Identity, string) {
	raw := ctx.Cookies(session.CookieName)
	if raw == "" {
		return nil, ""
	}
	sid, err := codec.Decode(raw)
	if err != nil {
		return nil, ""
	}
	sess, found := store.Get(ctx.Context(), sid)
	if !found {
		return nil, ""
	}
	ident := &entity.Identity{
		UserID:      sess.UserID,
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
	}
	if !ident.Valid() {
		return nil, ""
	}
	return ident, sid
}

func bearerToken(header string) string {
	if len(header) < 8 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
