// Package auth signs and verifies the HS256 bearer tokens the API accepts.
//
// Login and refresh live outside this service; Issuer exists so that tests and
// local tooling can mint tokens with the same claims the identity provider uses.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"kidcare/internal/clock"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	claimSubject      = "sub"
	claimRole         = "role"
	claimTokenVersion = "tv"
)

// トークンから取り出した本人情報
type Claims struct {
	UserID       string
	Role         string
	TokenVersion int
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewIssuer(secret string, ttl time.Duration, clk clock.Clock) *Issuer {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, clock: clk}
}

func (i *Issuer) Issue(c Claims) (string, error) {
	now := i.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimSubject:      c.UserID,
		claimRole:         c.Role,
		claimTokenVersion: c.TokenVersion,
		"iat":             now.Unix(),
		"exp":             now.Add(i.ttl).Unix(),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// HS256以外は受け付けない
func Parse(secret string, raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	userID, ok := claims[claimSubject].(string)
	if !ok || userID == "" {
		return Claims{}, ErrInvalidToken
	}
	role, ok := claims[claimRole].(string)
	if !ok || role == "" {
		return Claims{}, ErrInvalidToken
	}
	tv, err := parseInt(claims[claimTokenVersion])
	if err != nil || tv < 0 {
		return Claims{}, ErrInvalidToken
	}

	return Claims{UserID: userID, Role: role, TokenVersion: tv}, nil
}

func parseInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case string:
		i64, err := strconv.ParseInt(t, 10, 32)
		if err != nil {
			return 0, err
		}
		return int(i64), nil
	default:
		return 0, errors.New("invalid int")
	}
}
