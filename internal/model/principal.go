package model

type ContextKey string

const (
	PrincipalKey   ContextKey = "principal"
	TenantDBKey    ContextKey = "tenantDB"
	EmpresaCodeKey ContextKey = "empresaCode"
)

// Principal é o ator autenticado derivado do token, válido por uma requisição.
// IsSuperadmin vem pronto do token: é decidido na emissão (cargo "admin" na
// empresa raiz), nunca re-derivado em call sites.
type Principal struct {
	ID           int    `json:"id"`
	Login        string `json:"login"`
	Nome         string `json:"nome"`
	Cargo        string `json:"cargo"`
	EmpresaID    int    `json:"empresa_id"`
	Empresa      string `json:"empresa"`
	IsSuperadmin bool   `json:"is_superadmin"`
}

// RequireID devolve o id numérico do principal. Protege contra tokens que
// decodificam mas vêm sem a claim de id.
func (p *Principal) RequireID() (int, error) {
	if p == nil || p.ID == 0 {
		return 0, NewAppError("UNAUTHORIZED", "Usuário não autenticado.", "", ErrUnauthorized)
	}
	return p.ID, nil
}
