package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaughan-dsouza/postboard/internal/utils"
)

var ErrInvalidToken = errors.New("invalid token")

// Messages returned in the body of a rejected request. The status stays 200.
const (
	MsgBadTokenFormat = "invalid token format, use 'Bearer <token>'"
	MsgInvalidToken   = "invalid token"
)

// Principal identifies whoever presented an accepted token.
type Principal struct {
	Subject string
}

// TokenValidator decides whether a bearer token is acceptable.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (Principal, error)
}

// StaticValidator accepts a single shared secret.
type StaticValidator struct {
	Secret string
}

func (v StaticValidator) Validate(_ context.Context, token string) (Principal, error) {
	if v.Secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(v.Secret)) != 1 {
		return Principal{}, ErrInvalidToken
	}
	return Principal{Subject: "shared-secret"}, nil
}

// BcryptValidator accepts the secret whose bcrypt hash it holds.
type BcryptValidator struct {
	Hash []byte
}

func (v BcryptValidator) Validate(_ context.Context, token string) (Principal, error) {
	if err := bcrypt.CompareHashAndPassword(v.Hash, []byte(token)); err != nil {
		return Principal{}, ErrInvalidToken
	}
	return Principal{Subject: "shared-secret"}, nil
}

// JWTValidator accepts HS256 tokens signed with Secret.
type JWTValidator struct {
	Secret string
}

func (v JWTValidator) Validate(_ context.Context, token string) (Principal, error) {
	claims, err := utils.VerifyToken(token, v.Secret)
	if err != nil {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}
	return Principal{Subject: claims.Subject}, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// RequireBearer gates next behind v. Rejections are reported as a 200 with an
// {"error": ...} body, not a 401.
func RequireBearer(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				utils.JSONError(w, http.StatusOK, MsgBadTokenFormat)
				return
			}

			principal, err := v.Validate(r.Context(), token)
			if err != nil {
				log.WithFields(log.Fields{
					"path":  r.URL.Path,
					"error": err,
				}).Debug("token rejected")
				utils.JSONError(w, http.StatusOK, MsgInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), utils.CtxPrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the principal stored by RequireBearer.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(utils.CtxPrincipalKey).(Principal)
	return p, ok
}
