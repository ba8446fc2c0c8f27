package publicapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"

	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/publicapi/handlerwrapper"
)

const subjectClaim = "user"

// GenerateToken issues a bearer token for the mutating endpoints of a server sharing secret.
func GenerateToken(secret, subject string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["authorized"] = true
	claims[subjectClaim] = subject
	return token.SignedString([]byte(secret))
}

func parseToken(secret, tokenString string) (string, error) {
	parsedToken, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return "", fmt.Errorf("could not parse claims")
	}
	subject, ok := claims[subjectClaim].(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}

// requiresLogin rejects requests without a valid bearer token. With no secret configured every
// request is rejected.
func requiresLogin(secret string, fn httpErrorFunc) httpErrorFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		if secret == "" {
			return oracleerrors.New(oracleerrors.Unauthorized, "authenticated endpoints are disabled on this server")
		}
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenString == "" {
			return oracleerrors.New(oracleerrors.Unauthorized, "no token provided")
		}
		subject, err := parseToken(secret, tokenString)
		if err != nil {
			return oracleerrors.Wrap(oracleerrors.Unauthorized, err, "invalid token")
		}
		handlerwrapper.SetSubject(r.Context(), subject)
		return fn(w, r)
	}
}
