package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/verdipos/verdi_backend/config"
)

// JwtCustomClaim is the payload of the session cookie. StandardClaims.Id holds the session id.
type JwtCustomClaim struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

func getJwtSecret() []byte {
	return []byte(config.GetEnv("SECRET_KEY", "change-me-secret"))
}

func SessionLifespan() time.Duration {
	hours := config.GetEnvInt("TOKEN_HOUR_LIFESPAN", 12)
	if hours <= 0 {
		hours = 12
	}
	return time.Duration(hours) * time.Hour
}

// JwtGenerate signs a session token for the user and returns it with its session id.
func JwtGenerate(userID int, username string, role string) (string, string, error) {
	now := time.Now()
	sessionId := uuid.NewString()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		ID:       userID,
		Username: username,
		Role:     role,
		StandardClaims: jwt.StandardClaims{
			Id:        sessionId,
			ExpiresAt: now.Add(SessionLifespan()).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	token, err := t.SignedString(getJwtSecret())
	if err != nil {
		return "", "", err
	}
	return token, sessionId, nil
}

func JwtValidate(token string) (*JwtCustomClaim, error) {
	parsed, err := jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return getJwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
