//go:generate mockery --name ProdutoRepository --output ./mocks --outpkg mocks --case=underscore
//go:generate mockery --name ServicoRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
)

type ProdutoRepository interface {
	ListComEstoque(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.ProdutoComEstoque, error)
	DecrementarEstoque(ctx context.Context, db *gorm.DB, idProduto, qtd int) error
}

type ServicoRepository interface {
	ListAtivos(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Servico, error)
}

type gormProdutoRepository struct{}

func NewGormProdutoRepository() ProdutoRepository {
	return &gormProdutoRepository{}
}

func (r *gormProdutoRepository) ListComEstoque(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.ProdutoComEstoque, error) {
	logger := middleware.GetLogger(ctx)
	var produtos []model.ProdutoComEstoque

	result := db.WithContext(ctx).
		Table("produtos p").
		Select("p.id_produto, p.nome, p.codigo_barras, p.descricao, p.preco_venda, p.categoria, COALESCE(SUM(e.quantidade), 0) AS estoque_total").
		Joins("LEFT JOIN estoque e ON p.id_produto = e.id_produto").
		Where("p.ativo = ? AND p.deleted_at IS NULL", true).
		Group("p.id_produto").
		Order("p.nome").
		Offset(offset).Limit(limit).
		Scan(&produtos)
	if result.Error != nil {
		logger.Error("Error listing produtos", "error", result.Error)
		return nil, fmt.Errorf("gormProdutoRepository.ListComEstoque: %w", result.Error)
	}
	return produtos, nil
}

// DecrementarEstoque abate qtd do estoque do produto. Falha com conflito se
// não houver saldo suficiente; o WHERE garante que o abatimento nunca deixa
// a linha negativa.
func (r *gormProdutoRepository) DecrementarEstoque(ctx context.Context, db *gorm.DB, idProduto, qtd int) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.Estoque{}).
		Where("id_produto = ? AND quantidade >= ?", idProduto, qtd).
		Update("quantidade", gorm.Expr("quantidade - ?", qtd))
	if result.Error != nil {
		logger.Error("Error decrementing estoque", "error", result.Error, "id_produto", idProduto)
		return fmt.Errorf("gormProdutoRepository.DecrementarEstoque: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.NewAppError("ESTOQUE_INSUFICIENTE",
			fmt.Sprintf("Estoque insuficiente para o produto %d.", idProduto), "", model.ErrInvalidInput)
	}
	return nil
}

type gormServicoRepository struct{}

func NewGormServicoRepository() ServicoRepository {
	return &gormServicoRepository{}
}

func (r *gormServicoRepository) ListAtivos(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Servico, error) {
	logger := middleware.GetLogger(ctx)
	var servicos []model.Servico

	result := db.WithContext(ctx).
		Where("ativo = ?", true).
		Order("nome").
		Offset(offset).Limit(limit).
		Find(&servicos)
	if result.Error != nil {
		logger.Error("Error listing servicos", "error", result.Error)
		return nil, fmt.Errorf("gormServicoRepository.ListAtivos: %w", result.Error)
	}
	return servicos, nil
}
