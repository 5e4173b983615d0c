// Package tenant decide a qual empresa uma requisição pertence e entrega o
// pool de conexão do banco dela.
package tenant

import (
	"net/http"
	"strings"

	"petshop_saas_api/internal/token"
)

// DefaultEmpresa é o código sentinela usado quando a requisição não traz
// empresa nem token.
const DefaultEmpresa = "default"

// HeaderEmpresa é o header explícito de tenant. Header.Get já é
// case-insensitive, então x-empresa também funciona.
const HeaderEmpresa = "X-Empresa"

type Resolver struct {
	codec *token.Codec
}

func NewResolver(codec *token.Codec) *Resolver {
	return &Resolver{codec: codec}
}

// Resolve aplica a ordem de prioridade: header explícito, claim do token,
// default. O header vence o token de propósito: no login ainda não existe
// token e o cliente precisa poder fixar a empresa.
func (r *Resolver) Resolve(req *http.Request) string {
	if code := strings.TrimSpace(req.Header.Get(HeaderEmpresa)); code != "" {
		return code
	}

	auth := req.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		claims, err := r.codec.Decode(strings.TrimSpace(auth[7:]))
		if err == nil {
			if code := claims.EmpresaCodigo(); code != "" {
				return code
			}
		}
	}

	return DefaultEmpresa
}
