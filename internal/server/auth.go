package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

var (
	errMissingToken  = errors.New("no bearer token provided")
	errAuthDisabled  = errors.New("token verification is not configured")
	errNoUserInToken = errors.New("token carries no user id")
)

// Claims are the bearer token claims. Tokens issued by the account service
// carry userId; sub is accepted as a fallback.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

type authenticator struct {
	secret []byte
}

// verify parses an HS256 token and returns the user id it names.
func (a *authenticator) verify(raw string) (string, error) {
	if len(a.secret) == 0 {
		return "", errAuthDisabled
	}
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.UserID != "" {
		return claims.UserID, nil
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return "", errNoUserInToken
}

// optional lets anonymous requests through but rejects a bad token.
func (a *authenticator) optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if errors.Is(err, errMissingToken) {
			c.Next()
			return
		}
		a.authenticate(c, raw, err)
	}
}

func (a *authenticator) required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if errors.Is(err, errMissingToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{
				Error:   "Authentication required",
				Message: err.Error(),
			})
			return
		}
		a.authenticate(c, raw, err)
	}
}

func (a *authenticator) authenticate(c *gin.Context, raw string, err error) {
	var uid string
	if err == nil {
		uid, err = a.verify(raw)
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{
			Error:   "Invalid token",
			Message: err.Error(),
		})
		return
	}
	c.Set(userIDKey, uid)
	c.Next()
}

func bearerToken(c *gin.Context) (string, error) {
	scheme, tok, _ := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if scheme == "" {
		return "", errMissingToken
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("authorization header must use the Bearer scheme")
	}
	// "Bearer" with nothing after it counts as no token at all.
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", errMissingToken
	}
	return tok, nil
}

// userID returns the authenticated caller, or "" for anonymous requests.
func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
