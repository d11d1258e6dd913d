package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/golang-jwt/jwt/v5"
)

type Auth struct {
	Secret string
	TTL    time.Duration
}

func SetupAuth(s string) Auth {
	return Auth{
		Secret: s,
		TTL:    24 * time.Hour,
	}
}

func (a Auth) GenerateToken(userID int, email string) (string, error) {
	if userID == 0 || email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	ttl := a.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})

	tokenStr, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}

	return tokenStr, nil
}

func (a Auth) VerifyToken(tokenString string) (dto.AuthResponse, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.AuthResponse{}, errors.New("missing token")
	}

	// accepts "Bearer <token>" and "<token>"
	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		parts := strings.SplitN(tokenString, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return dto.AuthResponse{}, errors.New("invalid token format")
		}
		tokenString = strings.TrimSpace(parts[1])
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dto.AuthResponse{}, errors.New("token expired")
		}
		return dto.AuthResponse{}, errors.New("token parse error")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return dto.AuthResponse{}, errors.New("invalid token claims")
	}

	expFloat, ok := claims["exp"].(float64)
	if !ok {
		return dto.AuthResponse{}, errors.New("missing expiry")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return dto.AuthResponse{}, errors.New("invalid user_id claim")
	}
	email, _ := claims["email"].(string)
	iat, _ := claims["iat"].(float64)

	return dto.AuthResponse{
		UserID: int(userID),
		Email:  email,
		Expiry: expFloat,
		Iat:    iat,
	}, nil
}
