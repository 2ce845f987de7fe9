package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-shop/apperr"
	"go-shop/models"
	"go-shop/store"
	"go-shop/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandlerFunc is a handler that runs behind a Guard and receives the caller's
// resolved identity.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, id models.Identity)

// IdentityResolver turns the id carried by a verified token into an account.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, claims *utils.Claims) (models.Identity, error)
}

// UserResolver resolves tokens against the customer accounts.
type UserResolver struct {
	Users store.UserStore
}

func (res UserResolver) ResolveIdentity(ctx context.Context, claims *utils.Claims) (models.Identity, error) {
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return models.Identity{}, apperr.ErrInvalidToken
	}
	user, err := res.Users.GetUserByID(ctx, id)
	if errors.Is(err, apperr.ErrUserNotFound) {
		return models.Identity{}, apperr.WithMessage(apperr.ErrUnauthenticated, "User not found")
	}
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{ID: user.ID, Email: user.Email, Role: models.RoleUser}, nil
}

// AdminResolver resolves tokens against the admin accounts. Anything that is
// not an admin token naming an existing admin is forbidden.
type AdminResolver struct {
	Admins store.AdminStore
}

func (res AdminResolver) ResolveIdentity(ctx context.Context, claims *utils.Claims) (models.Identity, error) {
	if claims.Role != string(models.RoleAdmin) {
		return models.Identity{}, apperr.WithMessage(apperr.ErrForbidden, "Forbidden: Admins only")
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return models.Identity{}, apperr.ErrInvalidToken
	}
	admin, err := res.Admins.GetAdminByID(ctx, id)
	if errors.Is(err, apperr.ErrAdminNotFound) {
		return models.Identity{}, apperr.WithMessage(apperr.ErrForbidden, "Forbidden: Admins only")
	}
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{ID: admin.ID, Email: admin.Email, Role: models.RoleAdmin}, nil
}

// Guard verifies bearer session tokens and resolves them with its resolver.
type Guard struct {
	tokens   *utils.TokenService
	resolver IdentityResolver
}

func NewGuard(tokens *utils.TokenService, resolver IdentityResolver) *Guard {
	return &Guard{tokens: tokens, resolver: resolver}
}

// Protect wraps next so it only runs for requests carrying a valid token.
func (g *Guard) Protect(next HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := bearerToken(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		claims, err := g.tokens.Verify(tokenStr, utils.PurposeSession)
		if err != nil {
			utils.WriteError(w, r, apperr.WithMessage(err, "Invalid token"))
			return
		}

		identity, err := g.resolver.ResolveIdentity(r.Context(), claims)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		next(w, r, identity)
	}
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperr.WithMessage(apperr.ErrUnauthenticated, "Authorization header missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperr.WithMessage(apperr.ErrUnauthenticated, "Invalid Authorization header format")
	}
	return parts[1], nil
}
