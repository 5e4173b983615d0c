package middleware

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/tenant"
	"petshop_saas_api/internal/webutil"
)

// WithTenantDB resolve a empresa da requisição e injeta o pool do banco
// dela no contexto. Depois deste middleware, todo acesso a dados da
// requisição acontece contra exatamente um banco de tenant.
func WithTenantDB(resolver *tenant.Resolver, router *tenant.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			code := resolver.Resolve(r)
			db, err := router.Get(code)
			if err != nil {
				logger.Error("Tenant database unavailable", "empresa", code, "error", err)
				webutil.HandleError(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), model.TenantDBKey, db)
			ctx = context.WithValue(ctx, model.EmpresaCodeKey, code)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetDB devolve o pool do tenant da requisição.
func GetDB(ctx context.Context) (*gorm.DB, error) {
	db, ok := ctx.Value(model.TenantDBKey).(*gorm.DB)
	if !ok || db == nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR",
			"Conexão de banco ausente no contexto.", "", model.ErrInternalServer)
	}
	return db, nil
}

// GetEmpresaCode devolve o código de empresa resolvido para a requisição.
func GetEmpresaCode(ctx context.Context) string {
	if code, ok := ctx.Value(model.EmpresaCodeKey).(string); ok {
		return code
	}
	return tenant.DefaultEmpresa
}
