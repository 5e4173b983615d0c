package service

import (
	"context"

	"gorm.io/gorm"

	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
)

type CatalogoService interface {
	ListProdutos(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.ProdutoComEstoque, error)
	ListServicos(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Servico, error)
}

type catalogoService struct {
	produtoRepo repository.ProdutoRepository
	servicoRepo repository.ServicoRepository
}

func NewCatalogoService(produtoRepo repository.ProdutoRepository, servicoRepo repository.ServicoRepository) CatalogoService {
	return &catalogoService{produtoRepo: produtoRepo, servicoRepo: servicoRepo}
}

func (s *catalogoService) ListProdutos(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.ProdutoComEstoque, error) {
	return s.produtoRepo.ListComEstoque(ctx, db, offset, limit)
}

func (s *catalogoService) ListServicos(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Servico, error) {
	return s.servicoRepo.ListAtivos(ctx, db, offset, limit)
}
