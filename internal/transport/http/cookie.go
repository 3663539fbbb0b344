package http

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "ion_session"

// CookieCodec wraps the opaque session token in a signed JWT so a tampered
// cookie is rejected before it ever reaches the session store.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieCodec(secret string, ttl time.Duration) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), ttl: ttl}
}

func (c *CookieCodec) Encode(sessionToken string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionToken,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *CookieCodec) Decode(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}

// sessionFromRequest extracts the session token from the cookie, "" when
// absent or invalid (the request proceeds anonymously).
func (c *CookieCodec) sessionFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	sid, err := c.Decode(cookie.Value)
	if err != nil {
		return ""
	}
	return sid
}

// writeSession mirrors the session token to the cookie: set after a login,
// cleared after a logout.
func (c *CookieCodec) writeSession(w http.ResponseWriter, sessionToken string) {
	if sessionToken == "" {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return
	}
	value, err := c.Encode(sessionToken)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
