package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrMalformedToken = errors.New("token has no principal id")
)

// JWTManager handles generation and validation of JWT tokens.
// Access and refresh tokens share one HMAC secret and differ only in TTL.
type JWTManager struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		Secret:     []byte(secret),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// Claims is the token payload: the principal id plus registered claims.
type Claims struct {
	UserID PrincipalID `json:"id"`
	jwt.RegisteredClaims
}

// PrincipalID is the "id" claim. Anything other than a JSON string decodes
// to "", which Parse reports as ErrMalformedToken.
type PrincipalID string

func (p *PrincipalID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = ""
	}
	*p = PrincipalID(s)
	return nil
}

// TokenPair is one issuance: both tokens always carry the same principal id.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// IssuePair signs an access and a refresh token for userID. Either both are
// returned or an error is.
func (m *JWTManager) IssuePair(userID string) (TokenPair, error) {
	if userID == "" {
		return TokenPair{}, ErrMalformedToken
	}
	now := time.Now()
	access, aexp, err := m.sign(userID, now, m.AccessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, rexp, err := m.sign(userID, now, m.RefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (m *JWTManager) sign(userID string, issuedAt time.Time, ttl time.Duration) (string, time.Time, error) {
	// NumericDate has second precision; keep the reported expiry identical to the encoded one.
	exp := issuedAt.Add(ttl).Truncate(time.Second)
	claims := &Claims{
		UserID: PrincipalID(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Verify checks signature and expiry and returns the principal id.
func (m *JWTManager) Verify(tokenStr string) (string, error) {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	return string(claims.UserID), nil
}

// Parse is Verify returning the full claims.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
