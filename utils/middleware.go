package utils

import (
	"strings"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// BlocklistMiddleware rejects access tokens revoked by logout. It runs after
// the signature verifier.
func BlocklistMiddleware(ctx iris.Context) {
	header := ctx.GetHeader("Authorization")
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw != "" && TokenBlacklisted(raw) {
		JSONError(ctx, iris.StatusUnauthorized, CodeUnauthorized, "Token has been revoked")
		return
	}
	ctx.Next()
}

// RequireRoles guards a party with an allow-list of roles.
func RequireRoles(roles ...string) iris.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(ctx iris.Context) {
		claims := jwt.Get(ctx).(*AccessToken)
		if _, ok := allowed[claims.Role]; !ok {
			JSONError(ctx, iris.StatusForbidden, CodeForbidden, "Insufficient permissions")
			return
		}
		ctx.Values().Set("userID", claims.ID)
		ctx.Next()
	}
}

// AdminOnlyMiddleware ensures the requester has an admin or super_admin role.
func AdminOnlyMiddleware(ctx iris.Context) {
	actor := ActorFromContext(ctx)
	if !actor.Admin() {
		JSONError(ctx, iris.StatusForbidden, CodeForbidden, "Admin access required")
		return
	}
	ctx.Values().Set("userID", actor.ID)
	ctx.Next()
}

// SuperAdminOnlyMiddleware ensures only super admins can access.
func SuperAdminOnlyMiddleware(ctx iris.Context) {
	actor := ActorFromContext(ctx)
	if !actor.SuperAdmin() {
		JSONError(ctx, iris.StatusForbidden, CodeForbidden, "Super admin access required")
		return
	}
	ctx.Next()
}
