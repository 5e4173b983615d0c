package token

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop_saas_api/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(testSecret, "petshop-test", time.Hour)
	require.NoError(t, err)
	return codec
}

func TestNewCodec_RejectsWeakSecrets(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{name: "segredo curto", secret: "curto"},
		{name: "segredo vazio", secret: ""},
		{name: "segredo de template", secret: "sua-chave-secreta-super-segura-mude-isso-em-producao"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(tt.secret, "petshop-test", time.Hour)
			assert.Error(t, err)
		})
	}
}

func TestCodec_IssueDecode_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	signed, err := codec.Issue(Claims{
		IDFuncionario: 42,
		Nome:          "Maria",
		Cargo:         "admin",
		Empresa:       "petlove",
		EmpresaID:     7,
		IsSuperadmin:  false,
	}, 0)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.IDFuncionario)
	assert.Equal(t, "Maria", claims.Nome)
	assert.Equal(t, "admin", claims.Cargo)
	assert.Equal(t, "petlove", claims.EmpresaCodigo())
	assert.Equal(t, 7, claims.EmpresaID)
	assert.False(t, claims.IsSuperadmin)
	assert.Equal(t, "petshop-test", claims.Issuer)
}

func TestCodec_Decode_InvalidSignature(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec("ffffffffffffffffffffffffffffffffffffffff", "petshop-test", time.Hour)
	require.NoError(t, err)

	signed, err := other.Issue(Claims{IDFuncionario: 1, Empresa: "teste"}, 0)
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))
}

func TestCodec_Decode_Garbage(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Decode("nem-de-longe-um-jwt")
	assert.True(t, errors.Is(err, model.ErrUnauthorized))
}

func TestCodec_Decode_Expired(t *testing.T) {
	codec := newTestCodec(t)

	signed, err := codec.Issue(Claims{IDFuncionario: 1, Empresa: "teste"}, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))
}

// Um token que entrou no cache ainda válido não pode voltar de um hit
// depois de vencido.
func TestCodec_Decode_CacheHitRechecksExpiry(t *testing.T) {
	codec := newTestCodec(t)

	signed, err := codec.Issue(Claims{IDFuncionario: 9, Empresa: "teste"}, 150*time.Millisecond)
	require.NoError(t, err)

	// Primeiro decode popula o cache.
	_, err = codec.Decode(signed)
	require.NoError(t, err)

	time.Sleep(200 * time.Millisecond)

	_, err = codec.Decode(signed)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))

	// A entrada vencida foi removida; decodes seguintes continuam negados
	// pelo caminho de verificação completa.
	_, err = codec.Decode(signed)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))
}

func TestClaims_EmpresaCodigo_LegacyClaim(t *testing.T) {
	c := &Claims{EmpresaCode: "legada"}
	assert.Equal(t, "legada", c.EmpresaCodigo())

	c.Empresa = "nova"
	assert.Equal(t, "nova", c.EmpresaCodigo())
}
