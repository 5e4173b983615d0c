package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
)

// Ledger aplica a regra de consumo de pacotes. Consume DEVE rodar dentro da
// mesma transação do agendamento que o consome: a linha de clientes_pacotes é
// travada com FOR UPDATE, então duas reservas concorrentes sobre o mesmo saldo
// serializam e a segunda enxerga o saldo já debitado.
type Ledger struct {
	pacoteRepo repository.PacoteRepository
}

func NewLedger(pacoteRepo repository.PacoteRepository) *Ledger {
	return &Ledger{pacoteRepo: pacoteRepo}
}

// Consume debita um uso do pacote do cliente e registra a linha no histórico.
//
//   - creditos: exige usos_restantes > 0, decrementa; chega a zero → usado.
//   - combo: o primeiro consumo marca o pacote inteiro como usado.
func (l *Ledger) Consume(ctx context.Context, tx *gorm.DB, idClientePacote, idAgendamento, idServico int, observacoes *string) error {
	logger := middleware.GetLogger(ctx).With("id_cliente_pacote", idClientePacote)

	cp, err := l.pacoteRepo.FindClientePacoteForUpdate(ctx, tx, idClientePacote)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("PACOTE_INVALIDO",
				"Pacote do cliente não encontrado.", "id_cliente_pacote", model.ErrInvalidInput)
		}
		return err
	}

	if cp.Status != model.ClientePacoteAtivo {
		logger.Warn("Attempt to consume non-active package", "status", cp.Status)
		return model.NewAppError("PACOTE_INVALIDO",
			"Pacote do cliente não está ativo.", "id_cliente_pacote", model.ErrInvalidInput)
	}

	switch cp.Pacote.Tipo {
	case model.PacoteTipoCreditos:
		if cp.UsosRestantes == nil || *cp.UsosRestantes <= 0 {
			logger.Warn("Attempt to consume package without credits")
			return model.NewAppError("SEM_CREDITOS",
				"Pacote do cliente sem créditos disponíveis.", "id_cliente_pacote", model.ErrInvalidInput)
		}
		restantes := *cp.UsosRestantes - 1
		fields := map[string]interface{}{"usos_restantes": restantes}
		if restantes == 0 {
			fields["status"] = model.ClientePacoteUsado
		}
		if err := l.pacoteRepo.UpdateClientePacote(ctx, tx, idClientePacote, fields); err != nil {
			return err
		}
	case model.PacoteTipoCombo:
		// Combo não tem saldo: o primeiro uso queima o pacote inteiro.
		if err := l.pacoteRepo.UpdateClientePacote(ctx, tx, idClientePacote, map[string]interface{}{
			"status": model.ClientePacoteUsado,
		}); err != nil {
			return err
		}
	default:
		return model.NewAppError("PACOTE_INVALIDO",
			"Tipo de pacote desconhecido.", "id_cliente_pacote", model.ErrInvalidInput)
	}

	uso := &model.ClientePacoteUso{
		IDClientePacote: idClientePacote,
		IDAgendamento:   idAgendamento,
		IDServico:       idServico,
		Observacoes:     observacoes,
	}
	if err := l.pacoteRepo.CreateUso(ctx, tx, uso); err != nil {
		return err
	}

	logger.Info("Package credit consumed",
		"id_agendamento", idAgendamento, "tipo", cp.Pacote.Tipo)
	return nil
}
