package session

import (
	"fmt"

	"shelfsmart/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the profile claims the backend puts in its tokens.
type TokenClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ProfileFromToken reads the profile claims of a token without verifying its
// signature. The credential stays opaque to the client; this only seeds the
// cached profile. Missing claims fall back to the placeholder profile.
func ProfileFromToken(token string) (models.UserProfile, error) {
	profile := models.PlaceholderProfile()

	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return profile, fmt.Errorf("failed to read token claims: %w", err)
	}

	if claims.Name != "" {
		profile.Name = claims.Name
	} else if claims.Subject != "" {
		profile.Name = claims.Subject
	}
	if claims.Email != "" {
		profile.Email = claims.Email
	}
	if claims.Role != "" {
		profile.Role = claims.Role
	}
	return profile, nil
}
