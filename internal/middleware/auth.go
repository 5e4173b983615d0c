package middleware

import (
	"context"
	"net/http"
	"strings"

	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/token"
	"petshop_saas_api/internal/webutil"
)

// Authenticate valida o bearer token e monta o Principal da requisição.
// Token ausente, malformado, expirado ou com assinatura inválida recebem a
// mesma resposta 401 — o chamador não distingue os casos.
func Authenticate(codec *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError(
					"UNAUTHORIZED", "Token inválido ou expirado.", "", model.ErrUnauthorized))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				logger.Warn("Auth failed: invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError(
					"UNAUTHORIZED", "Token inválido ou expirado.", "", model.ErrUnauthorized))
				return
			}

			claims, err := codec.Decode(strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Warn("Auth failed: token rejected")
				webutil.HandleError(w, logger, model.NewAppError(
					"UNAUTHORIZED", "Token inválido ou expirado.", "", model.ErrUnauthorized))
				return
			}

			principal := &model.Principal{
				ID:           claims.IDFuncionario,
				Login:        claims.Subject,
				Nome:         claims.Nome,
				Cargo:        claims.Cargo,
				EmpresaID:    claims.EmpresaID,
				Empresa:      claims.EmpresaCodigo(),
				IsSuperadmin: claims.IsSuperadmin,
			}

			if _, err := principal.RequireID(); err != nil {
				logger.Warn("Auth failed: token missing funcionario id claim")
				webutil.HandleError(w, logger, model.NewAppError(
					"UNAUTHORIZED", "Token inválido ou expirado.", "", model.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), model.PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal devolve o Principal gravado pelo Authenticate.
func GetPrincipal(ctx context.Context) (*model.Principal, error) {
	principal, ok := ctx.Value(model.PrincipalKey).(*model.Principal)
	if !ok || principal == nil {
		return nil, model.NewAppError("UNAUTHORIZED", "Usuário não autenticado.", "", model.ErrUnauthorized)
	}
	return principal, nil
}
