package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
)

type PacoteService interface {
	List(ctx context.Context, db *gorm.DB, ativo *bool, tipo string) ([]model.Pacote, error)
	Get(ctx context.Context, db *gorm.DB, id int) (*model.Pacote, error)
	Create(ctx context.Context, db *gorm.DB, req *model.PacoteCreateRequest) (*model.Pacote, error)
	Update(ctx context.Context, db *gorm.DB, id int, req *model.PacoteUpdateRequest) (*model.Pacote, error)
	Delete(ctx context.Context, db *gorm.DB, id int) error
	// Vender cria o saldo (ClientePacote) a partir da definição do pacote.
	Vender(ctx context.Context, db *gorm.DB, req *model.VenderPacoteRequest) (*model.ClientePacote, error)
	ListUsos(ctx context.Context, db *gorm.DB, idClientePacote int) ([]model.ClientePacoteUso, error)
}

type pacoteService struct {
	pacoteRepo repository.PacoteRepository
}

func NewPacoteService(pacoteRepo repository.PacoteRepository) PacoteService {
	return &pacoteService{pacoteRepo: pacoteRepo}
}

func (s *pacoteService) List(ctx context.Context, db *gorm.DB, ativo *bool, tipo string) ([]model.Pacote, error) {
	if tipo != "" && tipo != model.PacoteTipoCreditos && tipo != model.PacoteTipoCombo {
		return nil, model.NewAppError("INVALID_INPUT",
			"Tipo de pacote deve ser 'creditos' ou 'combo'.", "tipo", model.ErrInvalidInput)
	}
	return s.pacoteRepo.List(ctx, db, ativo, tipo)
}

func (s *pacoteService) Get(ctx context.Context, db *gorm.DB, id int) (*model.Pacote, error) {
	pacote, err := s.pacoteRepo.FindByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("PACOTE_NOT_FOUND",
				"Pacote não encontrado.", "", model.ErrNotFound)
		}
		return nil, err
	}
	return pacote, nil
}

// validarCamposPorTipo garante a coerência entre tipo e campos de saldo:
// creditos exige validade_dias e max_usos; combo proíbe ambos.
func validarCamposPorTipo(tipo string, validadeDias, maxUsos *int) error {
	switch tipo {
	case model.PacoteTipoCreditos:
		if validadeDias == nil || maxUsos == nil {
			return model.NewAppError("INVALID_INPUT",
				"Pacotes de créditos exigem validade_dias e max_usos.", "tipo", model.ErrInvalidInput)
		}
	case model.PacoteTipoCombo:
		if validadeDias != nil || maxUsos != nil {
			return model.NewAppError("INVALID_INPUT",
				"Pacotes combo não aceitam validade_dias nem max_usos.", "tipo", model.ErrInvalidInput)
		}
	}
	return nil
}

func (s *pacoteService) Create(ctx context.Context, db *gorm.DB, req *model.PacoteCreateRequest) (*model.Pacote, error) {
	logger := middleware.GetLogger(ctx)

	if err := validarCamposPorTipo(req.Tipo, req.ValidadeDias, req.MaxUsos); err != nil {
		return nil, err
	}

	pacote := &model.Pacote{
		Nome:         req.Nome,
		Descricao:    req.Descricao,
		Tipo:         req.Tipo,
		PrecoBase:    req.PrecoBase,
		ValidadeDias: req.ValidadeDias,
		MaxUsos:      req.MaxUsos,
		Ativo:        req.Ativo,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.pacoteRepo.Create(ctx, tx, pacote); err != nil {
			return err
		}
		if len(req.ServicosIDs) > 0 {
			return s.pacoteRepo.ReplaceServicos(ctx, tx, pacote.IDPacote, req.ServicosIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Pacote created", "id_pacote", pacote.IDPacote, "tipo", pacote.Tipo)
	return s.pacoteRepo.FindByID(ctx, db, pacote.IDPacote)
}

func (s *pacoteService) Update(ctx context.Context, db *gorm.DB, id int, req *model.PacoteUpdateRequest) (*model.Pacote, error) {
	pacote, err := s.Get(ctx, db, id)
	if err != nil {
		return nil, err
	}

	// Só persiste o que veio no corpo; o tipo nunca muda após a criação.
	fields := map[string]interface{}{}
	if req.Nome != nil {
		fields["nome"] = *req.Nome
	}
	if req.Descricao != nil {
		fields["descricao"] = *req.Descricao
	}
	if req.PrecoBase != nil {
		fields["preco_base"] = *req.PrecoBase
	}
	if req.ValidadeDias != nil {
		if pacote.Tipo == model.PacoteTipoCombo {
			return nil, model.NewAppError("INVALID_INPUT",
				"Pacotes combo não aceitam validade_dias.", "validade_dias", model.ErrInvalidInput)
		}
		fields["validade_dias"] = *req.ValidadeDias
	}
	if req.MaxUsos != nil {
		if pacote.Tipo == model.PacoteTipoCombo {
			return nil, model.NewAppError("INVALID_INPUT",
				"Pacotes combo não aceitam max_usos.", "max_usos", model.ErrInvalidInput)
		}
		fields["max_usos"] = *req.MaxUsos
	}
	if req.Ativo != nil {
		fields["ativo"] = *req.Ativo
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := s.pacoteRepo.UpdateFields(ctx, tx, id, fields); err != nil {
				return err
			}
		}
		if req.ServicosIDs != nil {
			return s.pacoteRepo.ReplaceServicos(ctx, tx, id, req.ServicosIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.pacoteRepo.FindByID(ctx, db, id)
}

func (s *pacoteService) Delete(ctx context.Context, db *gorm.DB, id int) error {
	if _, err := s.Get(ctx, db, id); err != nil {
		return err
	}
	return s.pacoteRepo.SoftDelete(ctx, db, id)
}

func (s *pacoteService) Vender(ctx context.Context, db *gorm.DB, req *model.VenderPacoteRequest) (*model.ClientePacote, error) {
	logger := middleware.GetLogger(ctx)

	pacote, err := s.Get(ctx, db, req.IDPacote)
	if err != nil {
		return nil, err
	}
	if !pacote.Ativo {
		return nil, model.NewAppError("PACOTE_INATIVO",
			"Pacote não está disponível para venda.", "id_pacote", model.ErrInvalidInput)
	}

	cp := &model.ClientePacote{
		IDCliente: req.IDCliente,
		IDPacote:  req.IDPacote,
		Status:    model.ClientePacoteAtivo,
		ValorPago: req.ValorPago,
	}
	if pacote.Tipo == model.PacoteTipoCreditos {
		usos := *pacote.MaxUsos
		cp.UsosRestantes = &usos
		expira := time.Now().AddDate(0, 0, *pacote.ValidadeDias)
		cp.DataExpiracao = &expira
	}

	if err := s.pacoteRepo.CreateClientePacote(ctx, db, cp); err != nil {
		return nil, err
	}

	logger.Info("Pacote sold",
		"id_cliente_pacote", cp.IDClientePacote, "id_cliente", req.IDCliente, "id_pacote", req.IDPacote)
	return cp, nil
}

func (s *pacoteService) ListUsos(ctx context.Context, db *gorm.DB, idClientePacote int) ([]model.ClientePacoteUso, error) {
	return s.pacoteRepo.ListUsos(ctx, db, idClientePacote)
}
