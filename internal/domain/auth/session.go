// Package auth provides the planner's view of the authenticated-session
// collaborator. Sign-in itself lives elsewhere; the planner only needs
// to know whether a request carries a valid identity, since saving a
// route requires one.
package auth

import (
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
)

// Session answers the two questions the planner asks about identity.
type Session interface {
	IsAuthenticated() bool
	CurrentUserID() string
}

type session struct {
	userID string
}

func (s session) IsAuthenticated() bool { return s.userID != "" }
func (s session) CurrentUserID() string { return s.userID }

// Anonymous returns the unauthenticated session.
func Anonymous() Session { return session{} }

// Static returns a session for a fixed user id, used in tests and
// trusted internal callers.
func Static(userID string) Session { return session{userID: userID} }

// Verifier turns bearer tokens into sessions.
type Verifier struct {
	logger *slog.Logger
	secret []byte
}

func NewVerifier(secret []byte, logger *slog.Logger) *Verifier {
	return &Verifier{logger: logger, secret: secret}
}

// SessionFromToken validates an HS256 JWT and extracts the subject.
// Anything invalid yields the anonymous session rather than an error;
// the save path turns that into ErrUnauthenticated.
func (v *Verifier) SessionFromToken(tokenString string) Session {
	if tokenString == "" {
		return Anonymous()
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		v.logger.Debug("token rejected", slog.Any("error", err))
		return Anonymous()
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return Anonymous()
	}
	return session{userID: sub}
}
