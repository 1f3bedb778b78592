package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token roles
const (
	RoleTeam      = "team"
	RoleOrganizer = "organizer"
)

const (
	TeamTokenTTL      = 24 * time.Hour
	OrganizerTokenTTL = 7 * 24 * time.Hour
)

type Claims struct {
	TeamName string `json:"team_name,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateTeamToken creates the session token returned on team login
func GenerateTeamToken(teamName, secret string) (string, error) {
	return generate(&Claims{TeamName: teamName, Role: RoleTeam}, TeamTokenTTL, secret)
}

// GenerateOrganizerToken creates a token that unlocks organizer endpoints
// and real-time commands.
func GenerateOrganizerToken(subject, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = OrganizerTokenTTL
	}
	claims := &Claims{Role: RoleOrganizer}
	claims.Subject = subject
	return generate(claims, ttl, secret)
}

func generate(claims *Claims, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.IssuedAt = jwt.NewNumericDate(now)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT validates and parses a JWT token
func ValidateJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// IsOrganizer reports whether tokenString is a valid organizer token.
func IsOrganizer(tokenString, secret string) bool {
	if tokenString == "" {
		return false
	}
	claims, err := ValidateJWT(tokenString, secret)
	return err == nil && claims.Role == RoleOrganizer
}
