// Package acctoken issues the single-use tokens mailed out for account
// activation and password reset. A token is an HMAC over the user's id,
// purpose, current password hash, and last-login time, so it stops
// verifying as soon as the password changes or the user logs in - no
// server-side token storage needed.
package acctoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Purpose string

const (
	PurposeActivate      Purpose = "activate"
	PurposeResetPassword Purpose = "reset-password"
)

const MaxAge = 24 * time.Hour

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

type Generator struct {
	secret []byte
}

func NewGenerator(secret []byte) *Generator {
	return &Generator{
		secret: secret,
	}
}

// Generate builds a token of the form "<timestamp36>-<mac>".
func (g *Generator) Generate(purpose Purpose, userID uint, passwordHash string, lastLogin *time.Time, now time.Time) string {
	ts := strconv.FormatInt(now.Unix(), 36)

	return ts + "-" + g.mac(purpose, userID, passwordHash, lastLogin, ts)
}

// Verify checks integrity against the user's current state and rejects
// tokens older than MaxAge.
func (g *Generator) Verify(purpose Purpose, userID uint, passwordHash string, lastLogin *time.Time, token string, now time.Time) error {
	ts, mac, found := strings.Cut(token, "-")
	if !found {
		return ErrTokenInvalid
	}

	expected := g.mac(purpose, userID, passwordHash, lastLogin, ts)
	if !hmac.Equal([]byte(mac), []byte(expected)) {
		return ErrTokenInvalid
	}

	issued, err := strconv.ParseInt(ts, 36, 64)
	if err != nil {
		return ErrTokenInvalid
	}
	if now.Sub(time.Unix(issued, 0)) > MaxAge {
		return ErrTokenExpired
	}

	return nil
}

func (g *Generator) mac(purpose Purpose, userID uint, passwordHash string, lastLogin *time.Time, ts string) string {
	login := "never"
	if lastLogin != nil {
		login = strconv.FormatInt(lastLogin.Unix(), 10)
	}

	h := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(h, "%v:%v:%v:%v:%v", purpose, userID, passwordHash, login, ts)

	return hex.EncodeToString(h.Sum(nil))
}
