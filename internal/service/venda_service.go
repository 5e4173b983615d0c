package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
)

type VendaService interface {
	// Create grava a venda, os itens e o débito de estoque numa transação
	// só: se um produto não tiver estoque, nada é persistido.
	Create(ctx context.Context, db *gorm.DB, req *model.VendaCreateRequest) (*model.VendaCreateResponse, error)
	Get(ctx context.Context, db *gorm.DB, id int) (*model.Venda, error)
	List(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Venda, error)
}

type vendaService struct {
	vendaRepo   repository.VendaRepository
	produtoRepo repository.ProdutoRepository
}

func NewVendaService(vendaRepo repository.VendaRepository, produtoRepo repository.ProdutoRepository) VendaService {
	return &vendaService{vendaRepo: vendaRepo, produtoRepo: produtoRepo}
}

func (s *vendaService) Create(ctx context.Context, db *gorm.DB, req *model.VendaCreateRequest) (*model.VendaCreateResponse, error) {
	logger := middleware.GetLogger(ctx)

	valorTotal := 0.0
	for _, item := range req.Itens {
		valorTotal += item.Preco * float64(item.Qtd)
	}
	valorFinal := valorTotal - req.Desconto
	if valorFinal < 0 {
		return nil, model.NewAppError("INVALID_INPUT",
			"Desconto não pode exceder o valor total.", "desconto", model.ErrInvalidInput)
	}

	venda := &model.Venda{
		IDCliente:     req.IDCliente,
		IDFuncionario: req.IDFuncionario,
		DataHoraVenda: time.Now(),
		ValorTotal:    valorTotal,
		Desconto:      req.Desconto,
		ValorFinal:    valorFinal,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.vendaRepo.Create(ctx, tx, venda); err != nil {
			return err
		}
		for _, item := range req.Itens {
			if err := s.produtoRepo.DecrementarEstoque(ctx, tx, item.IDProduto, item.Qtd); err != nil {
				return err
			}
			iv := &model.ItemVenda{
				IDVenda:   venda.IDVenda,
				IDProduto: item.IDProduto,
				Qtd:       item.Qtd,
				Preco:     item.Preco,
			}
			if err := s.vendaRepo.CreateItem(ctx, tx, iv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Venda created", "id_venda", venda.IDVenda, "valor_final", valorFinal)
	return &model.VendaCreateResponse{
		IDVenda:    venda.IDVenda,
		ValorFinal: valorFinal,
		Message:    "Venda registrada com sucesso.",
	}, nil
}

func (s *vendaService) Get(ctx context.Context, db *gorm.DB, id int) (*model.Venda, error) {
	return s.vendaRepo.FindByIDComItens(ctx, db, id)
}

func (s *vendaService) List(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Venda, error) {
	return s.vendaRepo.List(ctx, db, offset, limit)
}
