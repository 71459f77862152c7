package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/pkg/ctxutil"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

// AuthService is the glue to the external auth collaborator: it verifies the
// bearer token the client obtained there and exposes the identity it
// asserts. Nothing past this point re-verifies anything.
type AuthService interface {
	VerifyToken(tokenString string) (*types.VerifiedIdentity, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type identityClaims struct {
	Username string `json:"username,omitempty"`
	PfpURL   string `json:"pfp_url,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	log       *logger.Logger
	secretKey []byte
}

func NewAuthService(log *logger.Logger, secretKey string) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{log: serviceLog, secretKey: []byte(secretKey)}
}

func (as *authService) VerifyToken(tokenString string) (*types.VerifiedIdentity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, fmt.Errorf("empty token")
	}

	var claims identityClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return as.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return &types.VerifiedIdentity{
		Fid:      claims.Subject,
		Username: claims.Username,
		PfpURL:   claims.PfpURL,
	}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	identity, err := as.VerifyToken(tokenString)
	if err != nil {
		return ctx, err
	}
	return ctxutil.WithIdentity(ctx, identity), nil
}
