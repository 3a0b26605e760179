package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type tokenService struct {
	secret [32]byte
	expiry time.Duration
	logger outbound.Logger
}

// NewTokenService crée le service des jetons d'accès locaux.
// The secret is derived from the machine identity so tokens survive restarts
// on the same host but are useless anywhere else.
func NewTokenService(
	secret [32]byte,
	expiryMinutes int,
	logger outbound.Logger,
) inbound.TokenService {
	return &tokenService{
		secret: secret,
		expiry: time.Duration(expiryMinutes) * time.Minute,
		logger: logger,
	}
}

func (s *tokenService) IssueToken(issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid": uuid.New().String(),
		"iat": issuedAt.Unix(),
		"exp": issuedAt.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret[:])
	if err != nil {
		s.logger.Error("Failed to sign token", "error", err)
		return "", err
	}

	return signed, nil
}

func (s *tokenService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret[:], nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sid, ok := claims["sid"].(string)
		if !ok {
			return "", ErrInvalidToken
		}
		return sid, nil
	}

	return "", ErrInvalidToken
}
