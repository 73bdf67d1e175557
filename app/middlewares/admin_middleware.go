package middlewares

import (
	"net/http"
	"strings"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// RequireRole must run after AuthMiddleware.
func RequireRole(rnd *render.Render, log *zap.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := helpers.UserFromRequest(r)
			if !ok {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
				return
			}

			for _, role := range roles {
				if strings.EqualFold(user.Role, role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn("role check failed",
				zap.Uint("user_id", user.ID),
				zap.String("role", user.Role),
				zap.Strings("required", roles),
				zap.String("path", r.URL.Path),
			)
			rnd.JSON(w, http.StatusForbidden, map[string]string{"detail": "Access forbidden: insufficient permissions"})
		})
	}
}
