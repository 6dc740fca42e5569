package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"papertrade/internal/api/handler/v1/response"
	"papertrade/internal/pkg/jwthelper"
)

// ContextKeyAccountID is where the authenticator stores the authenticated
// account id. Handlers read it and pass the id explicitly into the services;
// nothing below the handlers ever touches the request context for identity.
const ContextKeyAccountID = "account_id"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("missing bearer token")))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("invalid token")))
			return
		}

		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("invalid token")))
			return
		}

		ctx.Set(ContextKeyAccountID, claims.AccountID)
		ctx.Next()
	}
}
