// Package token emite e decodifica os tokens de sessão assinados que
// carregam identidade e código de empresa entre requisições.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"petshop_saas_api/internal/config"
	"petshop_saas_api/internal/model"
)

const (
	// decodeCacheTTL limita por quanto tempo um decode bem-sucedido é
	// reaproveitado sem re-verificar a assinatura.
	decodeCacheTTL = 5 * time.Minute
	// decodeCacheSize limita o cache: com LRU o pior caso é re-verificar
	// assinaturas, nunca crescer sem teto.
	decodeCacheSize = 4096
)

// Claims é o payload do token de sessão. EmpresaCode é o nome legado da
// claim de empresa, mantido na leitura por compatibilidade com tokens
// antigos ainda em circulação.
type Claims struct {
	IDFuncionario int    `json:"id_funcionario"`
	Nome          string `json:"nome"`
	Cargo         string `json:"cargo"`
	Empresa       string `json:"empresa"`
	EmpresaCode   string `json:"empresa_code,omitempty"`
	EmpresaID     int    `json:"empresa_id"`
	IsSuperadmin  bool   `json:"is_superadmin"`
	jwt.RegisteredClaims
}

// EmpresaCodigo devolve o código de empresa embutido, tolerando os dois
// nomes de claim.
func (c *Claims) EmpresaCodigo() string {
	if c.Empresa != "" {
		return c.Empresa
	}
	return c.EmpresaCode
}

type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	cache  *lru.LRU[string, *Claims]
}

// NewCodec valida o segredo e monta o codec com cache de decode embutido.
// Segredo fraco é erro fatal de inicialização, não de requisição.
func NewCodec(secret, issuer string, ttl time.Duration) (*Codec, error) {
	if err := config.ValidateSecretKey(secret); err != nil {
		return nil, err
	}
	return &Codec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		cache:  lru.NewLRU[string, *Claims](decodeCacheSize, nil, decodeCacheTTL),
	}, nil
}

// Issue assina um token com expiração absoluta agora+ttl. ttl igual a zero
// usa o TTL configurado.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = c.ttl
	}
	now := time.Now()
	claims.Issuer = c.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return tok.SignedString(c.secret)
}

// Decode verifica assinatura e expiração. Assinatura inválida, payload
// malformado e token expirado são indistinguíveis para o chamador: todos
// voltam model.ErrUnauthorized.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	if cached, ok := c.cache.Get(tokenString); ok {
		// Presença no cache não basta: a expiração é re-checada para que
		// um token vencido nunca volte de um hit.
		if cached.ExpiresAt != nil && time.Now().Before(cached.ExpiresAt.Time) {
			return cached, nil
		}
		c.cache.Remove(tokenString)
		return nil, model.ErrUnauthorized
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, model.ErrUnauthorized
	}

	c.cache.Add(tokenString, claims)
	return claims, nil
}
