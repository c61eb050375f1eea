// Package auth covers password hashing and the signed tokens of the development backend.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	audienceAPI   = "api"
	audienceFiles = "files"
)

// ForbiddenError indicates the caller may not perform the operation.
type ForbiddenError struct {
	Reason string
}

func (e ForbiddenError) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}
	return e.Reason
}

var ErrInvalidToken = errors.New("invalid token")

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Principal is the authenticated caller.
type Principal struct {
	UserID   int
	UserType string
}

type claims struct {
	jwt.RegisteredClaims
	UserType string `json:"user_type,omitempty"`
}

// Issuer signs and verifies HS256 tokens for API access and file links.
type Issuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func (i Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

// Issue returns an access token for the user.
func (i Issuer) Issue(userID int, userType string) (string, error) {
	ttl := i.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	now := i.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			Audience:  jwt.ClaimStrings{audienceAPI},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserType: userType,
	}
	return i.sign(c)
}

// Authenticate verifies an access token and returns its principal.
func (i Issuer) Authenticate(token string) (Principal, error) {
	c, err := i.parse(token, audienceAPI)
	if err != nil {
		return Principal{}, err
	}
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return Principal{}, ErrInvalidToken
	}
	if c.UserType == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{UserID: id, UserType: c.UserType}, nil
}

// SignFile returns a signature granting read access to path until now+ttl.
func (i Issuer) SignFile(path string, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(ttl)
	sig, err := i.sign(claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   path,
		Audience:  jwt.ClaimStrings{audienceFiles},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}})
	return sig, exp, err
}

// VerifyFile checks that sig grants access to path.
func (i Issuer) VerifyFile(path, sig string) error {
	c, err := i.parse(sig, audienceFiles)
	if err != nil {
		return err
	}
	if c.Subject != path {
		return ErrInvalidToken
	}
	return nil
}

func (i Issuer) sign(c claims) (string, error) {
	if len(i.Secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.Secret)
}

func (i Issuer) parse(token, audience string) (claims, error) {
	if len(i.Secret) == 0 {
		return claims{}, errors.New("jwt secret not configured")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	c := claims{}
	parsed, err := parser.ParseWithClaims(strings.TrimSpace(token), &c, func(t *jwt.Token) (any, error) {
		return i.Secret, nil
	})
	if err != nil {
		return claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return claims{}, ErrInvalidToken
	}
	return c, nil
}
