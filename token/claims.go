// Package token reads the JWT pair the gateway stores in cookies and turns
// token expiry into cookie lifetimes.
//
// Claims are decoded from the payload segment without signature
// verification: the tokens were validated by the identity provider when the
// cookies were issued, and they only ever arrive over HttpOnly server-set
// cookies. The UnverifiedClaims type keeps that trust boundary explicit:
// decoded claims are never proof of authentication.
package token

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/prefeitura-rio/gorio-session-gateway/internal/utils"
)

// ErrMalformedToken is returned when a token is not a decodable three-part
// JWT. Callers must treat it as "cannot determine expiry", never as valid.
var ErrMalformedToken = errors.New("token: malformed JWT")

// NowFunc is swapped out in tests to pin the clock.
var NowFunc = time.Now

// UnverifiedClaims is the locally parsed view of a JWT payload.
type UnverifiedClaims struct {
	Exp   time.Time
	CPF   string
	Name  string
	Email string
	Roles []string
}

// Decode parses the payload segment of a three-part JWT without verifying
// the signature. Malformed structure, base64 or JSON all fail with
// ErrMalformedToken.
func Decode(raw string) (UnverifiedClaims, error) {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return UnverifiedClaims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return UnverifiedClaims{}, fmt.Errorf("%w: error extracting claims", ErrMalformedToken)
	}

	exp, _ := claims["exp"].(float64)
	cpf, _ := claims["cpf"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return UnverifiedClaims{
		Exp:   time.Unix(int64(exp), 0),
		CPF:   cpf,
		Name:  name,
		Email: email,
		Roles: extractRoles(claims),
	}, nil
}

// extractRoles reads the role list from the provider-specific claim. The
// provider nests roles under realm_access; a flat "roles" claim is accepted
// as a fallback for older tokens.
func extractRoles(claims jwtlib.MapClaims) []string {
	if realmAccess, ok := claims["realm_access"].(map[string]any); ok {
		if roles, ok := realmAccess["roles"].([]any); ok {
			return utils.ToStringSlice(roles)
		}
	}
	if roles, ok := claims["roles"].([]any); ok {
		return utils.ToStringSlice(roles)
	}
	return nil
}

// IsExpired reports whether the token's exp claim is in the past. An
// undecodable token is always expired (fail safe).
func IsExpired(raw string) bool {
	claims, err := Decode(raw)
	if err != nil {
		return true
	}
	return !claims.Exp.After(NowFunc())
}

// ExpiryTime returns the token's expiry, or the zero time when the token
// cannot be decoded; callers comparing against now see zero as already
// expired.
func ExpiryTime(raw string) time.Time {
	claims, err := Decode(raw)
	if err != nil {
		return time.Time{}
	}
	return claims.Exp
}
