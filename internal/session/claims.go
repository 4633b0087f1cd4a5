package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the part of a session token the client reads for display and
// for keying per-user state.  Nothing here is trusted for authorization;
// the API verifies the token on every call.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed.
// An absent expiry never counts as expired.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// ParseClaims decodes the payload of a JWT without checking its signature.
// It returns false when the token is not a decodable JWT; such tokens are
// still sent to the API unchanged.
func ParseClaims(raw string) (Claims, bool) {
	tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return Claims{}, false
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, false
	}

	var out Claims
	for _, key := range []string{"sub", "user_id", "userId", "id"} {
		if v := claimString(mc[key]); v != "" {
			out.UserID = v
			break
		}
	}
	out.Email = claimString(mc["email"])
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, true
}

// claimString renders string and numeric claim values; the API issues
// user ids as either.
func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
