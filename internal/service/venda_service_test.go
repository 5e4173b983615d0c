package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
)

func setupVendaDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.Produto{},
		&model.Estoque{},
		&model.Venda{},
		&model.ItemVenda{},
	))
	return db
}

func seedProduto(t *testing.T, db *gorm.DB, nome string, preco float64, estoque int) *model.Produto {
	t.Helper()
	produto := &model.Produto{Nome: nome, PrecoVenda: preco, Ativo: true}
	require.NoError(t, db.Create(produto).Error)
	require.NoError(t, db.Create(&model.Estoque{IDProduto: produto.IDProduto, Quantidade: estoque}).Error)
	return produto
}

func estoqueDe(t *testing.T, db *gorm.DB, idProduto int) int {
	t.Helper()
	var e model.Estoque
	require.NoError(t, db.First(&e, "id_produto = ?", idProduto).Error)
	return e.Quantidade
}

func TestVendaService_Create(t *testing.T) {
	ctx := context.Background()
	db := setupVendaDB(t)
	svc := NewVendaService(repository.NewGormVendaRepository(), repository.NewGormProdutoRepository())

	racao := seedProduto(t, db, "Ração 10kg", 120, 5)
	shampoo := seedProduto(t, db, "Shampoo", 30, 10)

	resp, err := svc.Create(ctx, db, &model.VendaCreateRequest{
		IDFuncionario: 1,
		Desconto:      20,
		Itens: []model.ItemVendaRequest{
			{IDProduto: racao.IDProduto, Qtd: 2, Preco: 120},
			{IDProduto: shampoo.IDProduto, Qtd: 1, Preco: 30},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 250.0, resp.ValorFinal) // 2*120 + 30 - 20

	assert.Equal(t, 3, estoqueDe(t, db, racao.IDProduto))
	assert.Equal(t, 9, estoqueDe(t, db, shampoo.IDProduto))

	venda, err := svc.Get(ctx, db, resp.IDVenda)
	require.NoError(t, err)
	assert.Equal(t, 270.0, venda.ValorTotal)
	assert.Equal(t, 20.0, venda.Desconto)
	assert.Len(t, venda.Itens, 2)
}

func TestVendaService_Create_EstoqueInsuficienteDesfazTudo(t *testing.T) {
	ctx := context.Background()
	db := setupVendaDB(t)
	svc := NewVendaService(repository.NewGormVendaRepository(), repository.NewGormProdutoRepository())

	racao := seedProduto(t, db, "Ração 10kg", 120, 5)
	shampoo := seedProduto(t, db, "Shampoo", 30, 1)

	_, err := svc.Create(ctx, db, &model.VendaCreateRequest{
		IDFuncionario: 1,
		Itens: []model.ItemVendaRequest{
			{IDProduto: racao.IDProduto, Qtd: 2, Preco: 120},
			{IDProduto: shampoo.IDProduto, Qtd: 3, Preco: 30},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	// Nada persiste: nem a venda, nem o débito do primeiro item.
	var vendas int64
	require.NoError(t, db.Model(&model.Venda{}).Count(&vendas).Error)
	assert.EqualValues(t, 0, vendas)
	assert.Equal(t, 5, estoqueDe(t, db, racao.IDProduto))
	assert.Equal(t, 1, estoqueDe(t, db, shampoo.IDProduto))
}

func TestVendaService_Create_DescontoMaiorQueTotal(t *testing.T) {
	ctx := context.Background()
	db := setupVendaDB(t)
	svc := NewVendaService(repository.NewGormVendaRepository(), repository.NewGormProdutoRepository())

	racao := seedProduto(t, db, "Ração 10kg", 120, 5)

	_, err := svc.Create(ctx, db, &model.VendaCreateRequest{
		IDFuncionario: 1,
		Desconto:      500,
		Itens: []model.ItemVendaRequest{
			{IDProduto: racao.IDProduto, Qtd: 1, Preco: 120},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
	assert.Equal(t, 5, estoqueDe(t, db, racao.IDProduto))
}
