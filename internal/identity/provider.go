// Package identity authenticates moderators and issues admin sessions.
package identity

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wan8ting/mystery-meet/internal/models"
	"github.com/wan8ting/mystery-meet/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Provider verifies moderator credentials and mints signed session tokens.
// The token carries the email claim that the access gate checks on every
// privileged operation, so revoking someone from the allow-list takes
// effect immediately regardless of outstanding tokens.
type Provider struct {
	moderators repository.ModeratorRepository
	secret     string
	issuer     string
	audience   string
	ttl        time.Duration
}

// NewProvider returns a Provider using the given moderator store and JWT settings.
func NewProvider(moderators repository.ModeratorRepository, secret, issuer, audience string, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Provider{
		moderators: moderators,
		secret:     secret,
		issuer:     issuer,
		audience:   audience,
		ttl:        ttl,
	}
}

// Authenticate checks the credentials and returns a signed session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (string, *models.Moderator, error) {
	mod, err := p.moderators.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if mod == nil {
		return "", nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(mod.Password), []byte(password)); cmpErr != nil {
		return "", nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, err := p.generateToken(mod)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, mod, nil
}

// ParseSession validates a session token and returns the moderator email claim.
func (p *Provider) ParseSession(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(p.secret), nil
	})
	if err != nil || !token.Valid {
		return "", models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.NewUnauthorizedError("Invalid token claims")
	}

	// Validate issuer and audience
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != p.issuer {
		return "", models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != p.audience {
		return "", models.NewUnauthorizedError("Invalid token audience")
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", models.NewUnauthorizedError("Invalid token structure - missing email")
	}

	return strings.ToLower(email), nil
}

// HashPassword hashes a moderator password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (p *Provider) generateToken(mod *models.Moderator) (string, error) {
	if p.secret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(mod.ID), 10),
		"email": mod.Email,
		"iss":   p.issuer,
		"aud":   p.audience,
		"exp":   now.Add(p.ttl).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(p.secret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
