package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
)

type ClienteService interface {
	List(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Cliente, error)
	Get(ctx context.Context, db *gorm.DB, id int) (*model.Cliente, error)
	Create(ctx context.Context, db *gorm.DB, req *model.ClienteCreateRequest) (*model.Cliente, error)
	Update(ctx context.Context, db *gorm.DB, id int, req *model.ClienteUpdateRequest) (*model.Cliente, error)
	Delete(ctx context.Context, db *gorm.DB, id int) error
	ListPets(ctx context.Context, db *gorm.DB, idCliente int) ([]model.Pet, error)
}

type clienteService struct {
	clienteRepo repository.ClienteRepository
}

func NewClienteService(clienteRepo repository.ClienteRepository) ClienteService {
	return &clienteService{clienteRepo: clienteRepo}
}

func (s *clienteService) List(ctx context.Context, db *gorm.DB, offset, limit int) ([]model.Cliente, error) {
	return s.clienteRepo.List(ctx, db, offset, limit)
}

func (s *clienteService) Get(ctx context.Context, db *gorm.DB, id int) (*model.Cliente, error) {
	cliente, err := s.clienteRepo.FindByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("CLIENTE_NOT_FOUND",
				"Cliente não encontrado.", "", model.ErrNotFound)
		}
		return nil, err
	}
	return cliente, nil
}

func (s *clienteService) Create(ctx context.Context, db *gorm.DB, req *model.ClienteCreateRequest) (*model.Cliente, error) {
	logger := middleware.GetLogger(ctx)

	cliente := &model.Cliente{
		Nome:                req.Nome,
		CPF:                 req.CPF,
		Telefone:            req.Telefone,
		Email:               req.Email,
		EnderecoRua:         req.EnderecoRua,
		EnderecoNumero:      req.EnderecoNumero,
		EnderecoComplemento: req.EnderecoComplemento,
		EnderecoBairro:      req.EnderecoBairro,
		EnderecoCidade:      req.EnderecoCidade,
		EnderecoEstado:      req.EnderecoEstado,
		EnderecoCEP:         req.EnderecoCEP,
		Ativo:               true,
	}
	if err := s.clienteRepo.Create(ctx, db, cliente); err != nil {
		return nil, err
	}

	logger.Info("Cliente created", "id_cliente", cliente.IDCliente)
	return cliente, nil
}

func (s *clienteService) Update(ctx context.Context, db *gorm.DB, id int, req *model.ClienteUpdateRequest) (*model.Cliente, error) {
	if _, err := s.Get(ctx, db, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Nome != nil {
		fields["nome"] = *req.Nome
	}
	if req.Telefone != nil {
		fields["telefone"] = *req.Telefone
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.EnderecoCidade != nil {
		fields["endereco_cidade"] = *req.EnderecoCidade
	}
	if req.EnderecoEstado != nil {
		fields["endereco_estado"] = *req.EnderecoEstado
	}
	if len(fields) > 0 {
		if err := s.clienteRepo.UpdateFields(ctx, db, id, fields); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, db, id)
}

func (s *clienteService) Delete(ctx context.Context, db *gorm.DB, id int) error {
	if _, err := s.Get(ctx, db, id); err != nil {
		return err
	}
	return s.clienteRepo.SoftDelete(ctx, db, id)
}

func (s *clienteService) ListPets(ctx context.Context, db *gorm.DB, idCliente int) ([]model.Pet, error) {
	if _, err := s.Get(ctx, db, idCliente); err != nil {
		return nil, err
	}
	return s.clienteRepo.ListPets(ctx, db, idCliente)
}
