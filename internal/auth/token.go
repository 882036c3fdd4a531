package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"linkr/internal/models"
)

// MintToken signs a development token carrying the user's identity claims.
// The stub server and the CLI use it; production tokens come from the real
// backend's login flow.
func MintToken(secret string, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":          user.ID,
		"username":     user.Username,
		"profileImage": user.AvatarURL,
		"iat":          time.Now().Unix(),
		"exp":          time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseIdentity validates a token and rebuilds the user identity from its
// claims. The returned user carries the token so it can be attached to
// remote calls as-is.
func ParseIdentity(secret, tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, models.NewUnauthorizedError("Invalid token structure - missing subject")
	}
	username, _ := claims["username"].(string)
	avatar, _ := claims["profileImage"].(string)

	return &models.User{
		ID:        sub,
		Username:  username,
		AvatarURL: avatar,
		Token:     tokenString,
	}, nil
}
