package jwt

import (
	"errors"
	"time"

	"medical-center/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims carry the session principal. Privilege is copied at login time; a
// privilege change takes effect once the holder's sessions are revoked.
type Claims struct {
	CredentialID int64     `json:"credential_id"`
	Identifier   string    `json:"identifier"`
	Privilege    int       `json:"privilege"`
	TokenType    TokenType `json:"token_type"`
	TokenID      string    `json:"token_id"`
	jwt.RegisteredClaims
}

type JWTService struct {
	config config.JWTConfig
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{config: cfg}
}

func (s *JWTService) GenerateAccessToken(credentialID int64, identifier string, privilege int) (string, string, error) {
	return s.generate(credentialID, identifier, privilege, AccessToken, s.config.AccessExpiry)
}

func (s *JWTService) GenerateRefreshToken(credentialID int64, identifier string, privilege int) (string, string, error) {
	return s.generate(credentialID, identifier, privilege, RefreshToken, s.config.RefreshExpiry)
}

func (s *JWTService) generate(credentialID int64, identifier string, privilege int, tokenType TokenType, ttl time.Duration) (string, string, error) {
	tokenID := uuid.New().String()
	now := time.Now()
	claims := Claims{
		CredentialID: credentialID,
		Identifier:   identifier,
		Privilege:    privilege,
		TokenType:    tokenType,
		TokenID:      tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", "", err
	}

	return signedToken, tokenID, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *JWTService) GetAccessExpiry() time.Duration {
	return s.config.AccessExpiry
}

func (s *JWTService) GetRefreshExpiry() time.Duration {
	return s.config.RefreshExpiry
}
