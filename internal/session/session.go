// Package session carries the caller's identity explicitly. Components that
// need to know who is acting receive a Session value; nothing reads identity
// from ambient state.
package session

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

type Session struct {
	UserID string
	Role   string
}

// Anonymous is the session of a caller that has not signed in.
var Anonymous = Session{}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}

func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == models.RoleAdmin
}

// Require returns Unauthenticated for anonymous sessions.
func (s Session) Require() error {
	if !s.Authenticated() {
		return apperr.Unauthenticated("sign in to continue")
	}
	return nil
}

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
	jwt.StandardClaims
}

// Issuer signs and verifies bearer tokens.
type Issuer struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{Secret: secret, TTL: ttl, now: time.Now}
}

func (i *Issuer) Issue(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  i.now().Unix(),
			ExpiresAt: i.now().Add(i.TTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.Secret)
}

func (i *Issuer) Parse(tokenStr string) (Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.Secret, nil
	})
	if err != nil {
		return Anonymous, &apperr.Error{Kind: apperr.KindUnauthenticated, Message: "invalid token", Cause: err}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Anonymous, apperr.Unauthenticated("invalid token")
	}
	return Session{UserID: claims.UserID, Role: claims.Role}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
