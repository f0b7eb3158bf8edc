package token

import "net/http"

const (
	// AccessTokenCookieName and RefreshTokenCookieName are the cookies the
	// gateway owns. Both are HttpOnly, Secure, SameSite=Lax, Path=/.
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"

	// expiredTokenMaxAge is used when a token is already expired at issue
	// time (clock skew, near-instant expiry). A zero or negative MaxAge
	// would delete the cookie immediately; it has to survive long enough
	// for one request to observe "expired" and trigger a refresh.
	expiredTokenMaxAge = 60

	// Fallbacks when a token cannot be decoded at all, mirroring the
	// typical configured lifetimes of each token kind.
	fallbackAccessMaxAge  = 10 * 60
	fallbackRefreshMaxAge = 30 * 60
)

// AccessTokenCookie builds the access-token cookie with MaxAge clamped to
// the token's own remaining lifetime, so the cookie never outlives the
// token's cryptographic validity.
func AccessTokenCookie(raw string) *http.Cookie {
	return buildCookie(AccessTokenCookieName, raw, fallbackAccessMaxAge)
}

// RefreshTokenCookie builds the refresh-token cookie; see AccessTokenCookie.
func RefreshTokenCookie(raw string) *http.Cookie {
	return buildCookie(RefreshTokenCookieName, raw, fallbackRefreshMaxAge)
}

// DeletionCookie expires a cookie immediately. Used on logout.
func DeletionCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

func buildCookie(name, raw string, fallbackMaxAge int) *http.Cookie {
	maxAge := fallbackMaxAge
	if claims, err := Decode(raw); err == nil {
		maxAge = int(claims.Exp.Unix() - NowFunc().Unix())
		if maxAge <= 0 {
			maxAge = expiredTokenMaxAge
		}
	}
	return &http.Cookie{
		Name:     name,
		Value:    raw,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}
