package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"petshop_saas_api/internal/model"
	"petshop_saas_api/internal/repository"
	"petshop_saas_api/internal/tenant"
)

// setupEmpresaFixture monta um serviço de empresas cujo roteador entrega um
// sqlite em memória como banco de controle.
func setupEmpresaFixture(t *testing.T) (EmpresaService, *gorm.DB, *tenant.Router) {
	t.Helper()
	controlDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := controlDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, controlDB.AutoMigrate(&model.Empresa{}))

	open := func(dsn string, _ *slog.Logger) (*gorm.DB, error) {
		return controlDB, nil
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := tenant.NewRouter("dsn-default", "", open, logger)

	svc := NewEmpresaService(repository.NewGormEmpresaRepository(),
		repository.NewGormEmpresaConfigRepository(), router)
	return svc, controlDB, router
}

func seedEmpresa(t *testing.T, db *gorm.DB, codigo string, ativo bool) *model.Empresa {
	t.Helper()
	empresa := &model.Empresa{Codigo: codigo, Nome: "Empresa " + codigo, Ativo: ativo}
	require.NoError(t, db.Create(empresa).Error)
	return empresa
}

func TestEmpresaService_AuthorizeAccess(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := setupEmpresaFixture(t)

	ativa := seedEmpresa(t, db, "ativa", true)
	inativa := seedEmpresa(t, db, "inativa", false)

	superadmin := &model.Principal{ID: 1, Cargo: "admin", EmpresaID: 99, IsSuperadmin: true}
	daAtiva := &model.Principal{ID: 2, Cargo: "atendente", EmpresaID: ativa.ID}
	daInativa := &model.Principal{ID: 3, Cargo: "admin", EmpresaID: inativa.ID}

	tests := []struct {
		name      string
		principal *model.Principal
		empresaID int
		wantErr   error
	}{
		{name: "dono acessa a própria empresa ativa", principal: daAtiva, empresaID: ativa.ID},
		{name: "superadmin acessa qualquer empresa", principal: superadmin, empresaID: ativa.ID},
		{name: "superadmin acessa até empresa inativa", principal: superadmin, empresaID: inativa.ID},
		{name: "acesso cruzado é proibido", principal: daAtiva, empresaID: inativa.ID, wantErr: model.ErrForbidden},
		{name: "empresa inativa nega o próprio dono", principal: daInativa, empresaID: inativa.ID, wantErr: model.ErrForbidden},
		{name: "empresa inexistente para superadmin é not found", principal: superadmin, empresaID: 9999, wantErr: model.ErrNotFound},
		{name: "empresa inexistente para dono é forbidden antes de existir", principal: daAtiva, empresaID: 9999, wantErr: model.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			empresa, err := svc.AuthorizeAccess(ctx, tt.principal, tt.empresaID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.empresaID, empresa.ID)
		})
	}
}

// setupTenantTestDB monta um banco de tenant com o schema operacional
// mínimo dos testes de dashboard e configuração.
func setupTenantTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Funcionario{}, &model.Cliente{},
		&model.Pet{}, &model.Venda{}, &model.EmpresaConfiguracao{}))
	return db
}

func TestEmpresaService_Dashboard(t *testing.T) {
	ctx := context.Background()
	svc, controlDB, _ := setupEmpresaFixture(t)
	tenantDB := setupTenantTestDB(t)

	empresa := seedEmpresa(t, controlDB, "banho-e-tosa", true)
	principal := &model.Principal{ID: 1, Cargo: "admin", EmpresaID: empresa.ID}

	require.NoError(t, tenantDB.Create(&model.Funcionario{Login: "f1", Senha: "x", Nome: "F1", Cargo: "admin"}).Error)
	require.NoError(t, tenantDB.Create(&model.Funcionario{Login: "f2", Senha: "x", Nome: "F2", Cargo: "atendente"}).Error)
	cliente := &model.Cliente{Nome: "Cliente 1", Ativo: true}
	require.NoError(t, tenantDB.Create(cliente).Error)
	require.NoError(t, tenantDB.Create(&model.Pet{IDCliente: cliente.IDCliente, Nome: "Rex", Especie: "cachorro"}).Error)
	require.NoError(t, tenantDB.Create(&model.Venda{IDFuncionario: 1, DataHoraVenda: time.Now(), ValorTotal: 100.5, ValorFinal: 100.5}).Error)
	require.NoError(t, tenantDB.Create(&model.Venda{IDFuncionario: 1, DataHoraVenda: time.Now(), ValorTotal: 60, Desconto: 10.5, ValorFinal: 49.5}).Error)

	dashboard, err := svc.Dashboard(ctx, tenantDB, principal)
	require.NoError(t, err)
	assert.Equal(t, empresa.ID, dashboard.ID)
	assert.Equal(t, empresa.Nome, dashboard.Nome)
	assert.EqualValues(t, 2, dashboard.TotalFuncionarios)
	assert.EqualValues(t, 1, dashboard.TotalClientes)
	assert.EqualValues(t, 1, dashboard.TotalPets)
	assert.EqualValues(t, 2, dashboard.TotalVendas)
	assert.InDelta(t, 150.0, dashboard.ReceitaTotal, 0.001)
}

func TestEmpresaService_Dashboard_NegadoParaEmpresaInativa(t *testing.T) {
	ctx := context.Background()
	svc, controlDB, _ := setupEmpresaFixture(t)
	tenantDB := setupTenantTestDB(t)

	inativa := seedEmpresa(t, controlDB, "inativa", false)
	principal := &model.Principal{ID: 1, Cargo: "admin", EmpresaID: inativa.ID}

	_, err := svc.Dashboard(ctx, tenantDB, principal)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestEmpresaService_Configuracoes(t *testing.T) {
	ctx := context.Background()
	svc, controlDB, _ := setupEmpresaFixture(t)
	tenantDB := setupTenantTestDB(t)

	empresa := seedEmpresa(t, controlDB, "config", true)
	principal := &model.Principal{ID: 1, Cargo: "admin", EmpresaID: empresa.ID}

	require.NoError(t, svc.PutConfiguracao(ctx, tenantDB, principal, "horario_abertura",
		&model.ConfiguracaoUpdateRequest{Valor: "08:00"}))
	require.NoError(t, svc.PutConfiguracao(ctx, tenantDB, principal, "agendamento_online",
		&model.ConfiguracaoUpdateRequest{Valor: "true", Tipo: "boolean"}))
	require.NoError(t, svc.PutConfiguracao(ctx, tenantDB, principal, "max_pets_por_cliente",
		&model.ConfiguracaoUpdateRequest{Valor: "5", Tipo: "number"}))

	configs, err := svc.ListConfiguracoes(ctx, tenantDB, principal)
	require.NoError(t, err)
	require.Len(t, configs, 3)
	// Ordenado por chave.
	assert.Equal(t, "agendamento_online", configs[0].Chave)

	// Leitura converte o valor conforme o tipo declarado.
	ligado, err := svc.GetConfiguracao(ctx, tenantDB, principal, "agendamento_online")
	require.NoError(t, err)
	assert.Equal(t, true, ligado.Valor)

	limite, err := svc.GetConfiguracao(ctx, tenantDB, principal, "max_pets_por_cliente")
	require.NoError(t, err)
	assert.Equal(t, 5, limite.Valor)

	// Sobrescrever a mesma chave é upsert, não duplicata.
	require.NoError(t, svc.PutConfiguracao(ctx, tenantDB, principal, "horario_abertura",
		&model.ConfiguracaoUpdateRequest{Valor: "09:00"}))
	abertura, err := svc.GetConfiguracao(ctx, tenantDB, principal, "horario_abertura")
	require.NoError(t, err)
	assert.Equal(t, "09:00", abertura.Valor)

	configs, err = svc.ListConfiguracoes(ctx, tenantDB, principal)
	require.NoError(t, err)
	assert.Len(t, configs, 3)
}

func TestEmpresaService_GetConfiguracao_Inexistente(t *testing.T) {
	ctx := context.Background()
	svc, controlDB, _ := setupEmpresaFixture(t)
	tenantDB := setupTenantTestDB(t)

	empresa := seedEmpresa(t, controlDB, "vazia", true)
	principal := &model.Principal{ID: 1, Cargo: "admin", EmpresaID: empresa.ID}

	_, err := svc.GetConfiguracao(ctx, tenantDB, principal, "nao_existe")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEmpresaService_ListECreate_ExigemSuperadmin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupEmpresaFixture(t)

	comum := &model.Principal{ID: 2, Cargo: "admin", EmpresaID: 5}

	_, err := svc.List(ctx, comum)
	assert.True(t, errors.Is(err, model.ErrForbidden))

	_, err = svc.Create(ctx, comum, &model.EmpresaCreateRequest{Codigo: "nova", Nome: "Nova Pet"})
	assert.True(t, errors.Is(err, model.ErrForbidden))
}

func TestEmpresaService_Create_NasceInativaEDuplicataConflita(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupEmpresaFixture(t)

	superadmin := &model.Principal{ID: 1, IsSuperadmin: true}

	empresa, err := svc.Create(ctx, superadmin, &model.EmpresaCreateRequest{
		Codigo: "nova",
		Nome:   "Nova Pet",
	})
	require.NoError(t, err)
	assert.False(t, empresa.Ativo, "empresa nova só ativa após provisionamento")
	assert.Equal(t, "basic", empresa.Plano)

	_, err = svc.Create(ctx, superadmin, &model.EmpresaCreateRequest{
		Codigo: "nova",
		Nome:   "Outra com mesmo código",
	})
	require.Error(t, err)
}

func TestEmpresaService_Update_AplicaSoCamposEnviados(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := setupEmpresaFixture(t)

	empresa := seedEmpresa(t, db, "petlove", true)

	novoNome := "Petlove Reformada"
	atualizada, err := svc.Update(ctx, empresa.ID, &model.EmpresaUpdateRequest{Nome: &novoNome})
	require.NoError(t, err)
	assert.Equal(t, novoNome, atualizada.Nome)
	assert.Equal(t, "petlove", atualizada.Codigo)
	assert.True(t, atualizada.Ativo)
}

func TestEmpresaService_Provisionar(t *testing.T) {
	ctx := context.Background()
	svc, db, router := setupEmpresaFixture(t)

	empresa := seedEmpresa(t, db, "nova", false)
	superadmin := &model.Principal{ID: 1, IsSuperadmin: true}

	require.False(t, router.Known("nova"))

	err := svc.Provisionar(ctx, superadmin, empresa.ID, &model.ProvisionRequest{
		DSN: "dsn-nova",
	})
	require.NoError(t, err)

	assert.True(t, router.Known("nova"))

	var atual model.Empresa
	require.NoError(t, db.First(&atual, empresa.ID).Error)
	assert.True(t, atual.Ativo)

	// O schema do tenant foi migrado no banco registrado.
	tenantDB, err := router.Get("nova")
	require.NoError(t, err)
	assert.True(t, tenantDB.Migrator().HasTable(&model.Funcionario{}))
	assert.True(t, tenantDB.Migrator().HasTable(&model.ClientePacote{}))
}

func TestEmpresaService_Provisionar_NegadoParaNaoSuperadmin(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := setupEmpresaFixture(t)

	empresa := seedEmpresa(t, db, "nova", false)
	comum := &model.Principal{ID: 2, Cargo: "admin", EmpresaID: empresa.ID}

	err := svc.Provisionar(ctx, comum, empresa.ID, &model.ProvisionRequest{DSN: "dsn"})
	assert.True(t, errors.Is(err, model.ErrForbidden))
}
