// Package auth issues and checks the JWTs that grant access to one board.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/inamate/inamate/board-go/internal/typeid"
)

var (
	ErrInvalidPasscode = errors.New("invalid passcode")
	ErrInvalidToken    = errors.New("invalid token")
)

const defaultTTL = 24 * time.Hour

type Service struct {
	jwtSecret    []byte
	passcodeHash []byte
	ttl          time.Duration
}

// NewService creates a service. An empty passcodeHash lets anyone obtain a
// token.
func NewService(jwtSecret, passcodeHash string) *Service {
	s := &Service{jwtSecret: []byte(jwtSecret), ttl: defaultTTL}
	if passcodeHash != "" {
		s.passcodeHash = []byte(passcodeHash)
	}
	return s
}

// Claims bind a token to one board.
type Claims struct {
	BoardID string `json:"board"`
	jwt.RegisteredClaims
}

type TokenResult struct {
	Token     string `json:"token"`
	BoardID   string `json:"boardId"`
	SessionID string `json:"sessionId"`
	ExpiresAt int64  `json:"expiresAt"`
}

// HashPasscode produces the value for ACCESS_PASSCODE_HASH.
func HashPasscode(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), 12)
	if err != nil {
		return "", fmt.Errorf("hash passcode: %w", err)
	}
	return string(hash), nil
}

// PasscodeRequired reports whether IssueToken checks a passcode.
func (s *Service) PasscodeRequired() bool { return s.passcodeHash != nil }

// IssueToken checks the passcode, if one is configured, and signs a token
// for boardID.
func (s *Service) IssueToken(boardID, passcode string) (*TokenResult, error) {
	if s.passcodeHash != nil {
		if err := bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(passcode)); err != nil {
			return nil, ErrInvalidPasscode
		}
	}
	now := time.Now()
	exp := now.Add(s.ttl)
	sessionID := typeid.NewSessionID()
	claims := Claims{
		BoardID: boardID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &TokenResult{Token: signed, BoardID: boardID, SessionID: sessionID, ExpiresAt: exp.Unix()}, nil
}

// ValidateToken parses a token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.BoardID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// ValidateBoardToken is ValidateToken plus a check that the token was
// issued for boardID.
func (s *Service) ValidateBoardToken(tokenString, boardID string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.BoardID != boardID {
		return nil, fmt.Errorf("%w: issued for another board", ErrInvalidToken)
	}
	return claims, nil
}
