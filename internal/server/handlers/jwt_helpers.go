package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation errors, distinguishable by errors.Is.
var (
	// ErrTokenExpired indicates a well-formed token past its expiry claim
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed indicates a token that failed parsing or signature checks
	ErrTokenMalformed = errors.New("token malformed")
)

// CustomClaims represents the JWT claims carried by both token kinds.
// The user id is the only application claim; everything else is stateless.
type CustomClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTConfig holds signing material and lifetimes for both token kinds.
// Access and refresh tokens are signed with distinct secrets so that one
// kind never verifies as the other.
type JWTConfig struct {
	AccessSecret    []byte
	RefreshSecret   []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// GenerateAccessToken creates a short-lived JWT access token.
// Returns the signed token and its lifetime in seconds.
func GenerateAccessToken(cfg JWTConfig, userID int64) (string, int64, error) {
	token, _, err := generateToken(cfg.AccessSecret, cfg.AccessTokenTTL, userID)
	if err != nil {
		return "", 0, err
	}
	return token, int64(cfg.AccessTokenTTL.Seconds()), nil
}

// GenerateRefreshToken creates a long-lived JWT refresh token.
// Returns the signed token and its absolute expiry, which the caller
// persists alongside the token for revocability.
func GenerateRefreshToken(cfg JWTConfig, userID int64) (string, time.Time, error) {
	return generateToken(cfg.RefreshSecret, cfg.RefreshTokenTTL, userID)
}

// ValidateAccessToken validates and parses a JWT access token.
func ValidateAccessToken(cfg JWTConfig, tokenString string) (*CustomClaims, error) {
	return validateToken(cfg.AccessSecret, tokenString)
}

// ValidateRefreshToken validates and parses a JWT refresh token.
// This only proves the token was issued by us; the caller must still
// check the stored row before trusting it.
func ValidateRefreshToken(cfg JWTConfig, tokenString string) (*CustomClaims, error) {
	return validateToken(cfg.RefreshSecret, tokenString)
}

func generateToken(secret []byte, ttl time.Duration, userID int64) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "taskwire",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

func validateToken(secret []byte, tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
