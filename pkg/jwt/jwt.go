package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the stable user id; the principal is re-resolved from it on
// every request. RegisteredClaims.ID is the token id used for revocation.
type Claims struct {
	UserID   int64 `json:"user_id"`
	Remember bool  `json:"remember,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and validates HS256 session tokens.
type Manager struct {
	secret         []byte
	issuer         string
	accessExpiry   time.Duration
	rememberExpiry time.Duration
	now            func() time.Time
}

func NewManager(secret, issuer string, accessExpiry, rememberExpiry time.Duration) *Manager {
	return &Manager{
		secret:         []byte(secret),
		issuer:         issuer,
		accessExpiry:   accessExpiry,
		rememberExpiry: rememberExpiry,
		now:            time.Now,
	}
}

// Generate signs a session token for userID. remember selects the long
// lifetime.
func (m *Manager) Generate(userID int64, remember bool) (string, *Claims, error) {
	ttl := m.accessExpiry
	if remember {
		ttl = m.rememberExpiry
	}

	now := m.now()
	claims := &Claims{
		UserID:   userID,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Validate parses tokenString and checks signature, expiry and issuer.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.ID == "" || claims.UserID <= 0 {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
