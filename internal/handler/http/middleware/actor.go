package middleware

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// ActorFromContext builds the authenticated actor from the verified JWT
// claims. The token is issued by the surrounding identity service; the
// engines trust the employee_id and role claims as-is.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Actor{}, user.ErrActorMissing
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return user.Actor{}, user.ErrInvalidToken
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return user.Actor{}, user.ErrInvalidToken
	}

	role := user.Role(roleStr)
	if role != user.RoleAdmin && role != user.RoleWorker {
		return user.Actor{}, user.ErrInvalidToken
	}

	return user.Actor{ID: employeeID, Role: role}, nil
}
