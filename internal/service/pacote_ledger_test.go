package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	// Cada conexão de um :memory: é um banco próprio; uma só conexão
	// mantém todo o teste no mesmo banco.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.Pacote{},
		&model.PacoteServico{},
		&model.ClientePacote{},
		&model.ClientePacoteUso{},
		&model.Agendamento{},
	))
	return db
}

func criarPacoteCreditos(t *testing.T, db *gorm.DB, maxUsos int) *model.ClientePacote {
	t.Helper()
	validade := 90
	pacote := &model.Pacote{
		Nome:         "Banho 3x",
		Tipo:         model.PacoteTipoCreditos,
		PrecoBase:    150,
		ValidadeDias: &validade,
		MaxUsos:      &maxUsos,
		Ativo:        true,
	}
	require.NoError(t, db.Create(pacote).Error)

	usos := maxUsos
	expira := time.Now().AddDate(0, 0, validade)
	cp := &model.ClientePacote{
		IDCliente:     1,
		IDPacote:      pacote.IDPacote,
		UsosRestantes: &usos,
		Status:        model.ClientePacoteAtivo,
		DataExpiracao: &expira,
		ValorPago:     150,
	}
	require.NoError(t, db.Create(cp).Error)
	return cp
}

func criarPacoteCombo(t *testing.T, db *gorm.DB) *model.ClientePacote {
	t.Helper()
	pacote := &model.Pacote{
		Nome:      "Banho + Tosa",
		Tipo:      model.PacoteTipoCombo,
		PrecoBase: 120,
		Ativo:     true,
	}
	require.NoError(t, db.Create(pacote).Error)

	cp := &model.ClientePacote{
		IDCliente: 1,
		IDPacote:  pacote.IDPacote,
		Status:    model.ClientePacoteAtivo,
		ValorPago: 120,
	}
	require.NoError(t, db.Create(cp).Error)
	return cp
}

func carregarClientePacote(t *testing.T, db *gorm.DB, id int) *model.ClientePacote {
	t.Helper()
	var cp model.ClientePacote
	require.NoError(t, db.First(&cp, id).Error)
	return &cp
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *model.AppError
	require.True(t, errors.As(err, &appErr), "expected *model.AppError, got %v", err)
	return appErr.Detail.Code
}

func TestLedger_Consume_CreditosAteEsgotar(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledger := NewLedger(repository.NewGormPacoteRepository())

	cp := criarPacoteCreditos(t, db, 3)

	for i := 1; i <= 3; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			return ledger.Consume(ctx, tx, cp.IDClientePacote, 100+i, 1, nil)
		})
		require.NoError(t, err, "consumo %d", i)
	}

	atual := carregarClientePacote(t, db, cp.IDClientePacote)
	require.NotNil(t, atual.UsosRestantes)
	assert.Equal(t, 0, *atual.UsosRestantes)
	assert.Equal(t, model.ClientePacoteUsado, atual.Status)

	var usos int64
	require.NoError(t, db.Model(&model.ClientePacoteUso{}).
		Where("id_cliente_pacote = ?", cp.IDClientePacote).Count(&usos).Error)
	assert.EqualValues(t, 3, usos)
}

func TestLedger_Consume_GravaObservacoesNoUso(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledger := NewLedger(repository.NewGormPacoteRepository())

	cp := criarPacoteCreditos(t, db, 2)
	obs := "pet agressivo, usar focinheira"

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Consume(ctx, tx, cp.IDClientePacote, 301, 1, &obs)
	})
	require.NoError(t, err)

	var uso model.ClientePacoteUso
	require.NoError(t, db.Where("id_cliente_pacote = ?", cp.IDClientePacote).First(&uso).Error)
	require.NotNil(t, uso.Observacoes)
	assert.Equal(t, obs, *uso.Observacoes)
}

func TestLedger_Consume_StatusSoViraUsadoNoUltimoCredito(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledger := NewLedger(repository.NewGormPacoteRepository())

	cp := criarPacoteCreditos(t, db, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Consume(ctx, tx, cp.IDClientePacote, 101, 1, nil)
	})
	require.NoError(t, err)

	atual := carregarClientePacote(t, db, cp.IDClientePacote)
	assert.Equal(t, 1, *atual.UsosRestantes)
	assert.Equal(t, model.ClientePacoteAtivo, atual.Status)
}

func TestLedger_Consume_SemCreditos(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledger := NewLedger(repository.NewGormPacoteRepository())

	cp := criarPacoteCreditos(t, db, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Consume(ctx, tx, cp.IDClientePacote, 101, 1, nil)
	})
	require.NoError(t, err)

	// O primeiro consumo zerou o saldo e marcou usado, então o segundo já
	// cai na checagem de status.
	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.Consume(ctx, tx, cp.IDClientePacote, 102, 1, nil)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	var usos int64
	require.NoError(t, db.Model(&model.ClientePacoteUso{}).Count(&usos).Error)
	assert.EqualValues(t, 1, usos, "consumo negado não pode gerar linha no histórico")
}

func TestLedger_Consume_ComboQueimaNoPrimeiroUso(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledger := NewLedger(repository.NewGormPacoteRepository())

	cp := criarPacoteCombo(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Consume(ctx, tx, cp.IDClientePacote, 201, 5, nil)
	})
	require.NoError(t, err)

	atual := carregarClientePacote(t, db, cp.IDClientePacote)
	assert.Equal(t, model.ClientePacoteUsado, atual.Status)
	assert.Nil(t, atual.UsosRestantes)

	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.Consume(ctx, tx, cp.IDClientePacote, 202, 5, nil)
	})
	require.Error(t, err)
	assert.Equal(t, "PACOTE_INVALIDO", appErrorCode(t, err))
}

func TestLedger_Consume_PacoteInexistente(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledger := NewLedger(repository.NewGormPacoteRepository())

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Consume(ctx, tx, 9999, 101, 1, nil)
	})
	require.Error(t, err)
	assert.Equal(t, "PACOTE_INVALIDO", appErrorCode(t, err))
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestLedger_Consume_PacoteExpirado(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	ledger := NewLedger(repository.NewGormPacoteRepository())

	cp := criarPacoteCreditos(t, db, 3)
	require.NoError(t, db.Model(&model.ClientePacote{}).
		Where("id_cliente_pacote = ?", cp.IDClientePacote).
		Update("status", model.ClientePacoteExpirado).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Consume(ctx, tx, cp.IDClientePacote, 101, 1, nil)
	})
	require.Error(t, err)
	assert.Equal(t, "PACOTE_INVALIDO", appErrorCode(t, err))
}

// A falha do débito tem de desfazer o agendamento criado na mesma transação.
func TestAgendamentoService_Create_RollbackQuandoConsumoFalha(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	pacoteRepo := repository.NewGormPacoteRepository()
	svc := NewAgendamentoService(repository.NewGormAgendamentoRepository(), NewLedger(pacoteRepo))

	cp := criarPacoteCreditos(t, db, 1)

	// Esgota o saldo.
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return NewLedger(pacoteRepo).Consume(ctx, tx, cp.IDClientePacote, 900, 1, nil)
	}))

	_, err := svc.Create(ctx, db, &model.AgendamentoCreateRequest{
		IDPet:           1,
		IDServico:       1,
		IDFuncionario:   1,
		DataHora:        time.Now().Add(24 * time.Hour),
		IDClientePacote: &cp.IDClientePacote,
	})
	require.Error(t, err)

	var agendamentos int64
	require.NoError(t, db.Model(&model.Agendamento{}).Count(&agendamentos).Error)
	assert.EqualValues(t, 0, agendamentos, "agendamento não pode sobreviver à falha do débito")
}

func TestAgendamentoService_Create_ComPacote(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	svc := NewAgendamentoService(repository.NewGormAgendamentoRepository(),
		NewLedger(repository.NewGormPacoteRepository()))

	cp := criarPacoteCreditos(t, db, 2)

	resp, err := svc.Create(ctx, db, &model.AgendamentoCreateRequest{
		IDPet:           1,
		IDServico:       3,
		IDFuncionario:   1,
		DataHora:        time.Now().Add(24 * time.Hour),
		IDClientePacote: &cp.IDClientePacote,
	})
	require.NoError(t, err)
	require.NotZero(t, resp.IDAgendamento)

	atual := carregarClientePacote(t, db, cp.IDClientePacote)
	assert.Equal(t, 1, *atual.UsosRestantes)

	var uso model.ClientePacoteUso
	require.NoError(t, db.First(&uso, "id_agendamento = ?", resp.IDAgendamento).Error)
	assert.Equal(t, cp.IDClientePacote, uso.IDClientePacote)
	assert.Equal(t, 3, uso.IDServico)
}

func TestAgendamentoService_Create_SemPacote(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	svc := NewAgendamentoService(repository.NewGormAgendamentoRepository(),
		NewLedger(repository.NewGormPacoteRepository()))

	resp, err := svc.Create(ctx, db, &model.AgendamentoCreateRequest{
		IDPet:         1,
		IDServico:     1,
		IDFuncionario: 1,
		DataHora:      time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.NotZero(t, resp.IDAgendamento)

	var usos int64
	require.NoError(t, db.Model(&model.ClientePacoteUso{}).Count(&usos).Error)
	assert.EqualValues(t, 0, usos)
}

func TestAgendamentoService_UpdateStatus_Validacao(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	svc := NewAgendamentoService(repository.NewGormAgendamentoRepository(),
		NewLedger(repository.NewGormPacoteRepository()))

	resp, err := svc.Create(ctx, db, &model.AgendamentoCreateRequest{
		IDPet:         1,
		IDServico:     1,
		IDFuncionario: 1,
		DataHora:      time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	err = svc.UpdateStatus(ctx, db, resp.IDAgendamento, "EmEspera")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	require.NoError(t, svc.UpdateStatus(ctx, db, resp.IDAgendamento, model.AgendamentoConfirmado))

	var ag model.Agendamento
	require.NoError(t, db.First(&ag, resp.IDAgendamento).Error)
	assert.Equal(t, model.AgendamentoConfirmado, ag.Status)
}
