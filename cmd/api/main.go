package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"petshop_saas_api/internal/config"
	"petshop_saas_api/internal/handlers"
	"petshop_saas_api/internal/middleware"
	"petshop_saas_api/internal/repository"
	"petshop_saas_api/internal/service"
	"petshop_saas_api/internal/tenant"
	"petshop_saas_api/internal/token"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		tintOpts := &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		}
		handler = tint.NewHandler(os.Stderr, tintOpts)
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}
		handler = slog.NewJSONHandler(os.Stderr, jsonOpts)
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...", slog.String("app", config.Cfg.App.Name))

	// O codec rejeita segredos fracos na inicialização: melhor o processo
	// nem subir do que subir assinando token com segredo de template.
	codec, err := token.NewCodec(config.Cfg.JWT.SecretKey, config.Cfg.App.Name, config.Cfg.JWT.AccessTokenTTL)
	if err != nil {
		slog.Error("Invalid token secret", slog.Any("error", err))
		os.Exit(1)
	}

	// Roteador de bancos por empresa: pools preguiçosos, um por código.
	dbRouter := tenant.NewRouter(config.Cfg.Database.URL, config.Cfg.Database.MapFile, repository.NewDB, logger)
	resolver := tenant.NewResolver(codec)

	// O banco default é obrigatório: plano de controle e fallback de tenant.
	defaultDB, err := dbRouter.Default()
	if err != nil {
		slog.Error("Error initializing default database", slog.Any("error", err))
		os.Exit(1)
	}

	// Dependency injection
	funcionarioRepo := repository.NewGormFuncionarioRepository()
	resetTokenRepo := repository.NewGormResetTokenRepository()
	empresaRepo := repository.NewGormEmpresaRepository()
	empresaConfigRepo := repository.NewGormEmpresaConfigRepository()
	clienteRepo := repository.NewGormClienteRepository()
	produtoRepo := repository.NewGormProdutoRepository()
	servicoRepo := repository.NewGormServicoRepository()
	pacoteRepo := repository.NewGormPacoteRepository()
	agendamentoRepo := repository.NewGormAgendamentoRepository()
	vendaRepo := repository.NewGormVendaRepository()

	mailer := service.NewMailer(&config.Cfg)
	ledger := service.NewLedger(pacoteRepo)

	authService := service.NewAuthService(codec, funcionarioRepo, resetTokenRepo, mailer, &config.Cfg)
	empresaService := service.NewEmpresaService(empresaRepo, empresaConfigRepo, dbRouter)
	clienteService := service.NewClienteService(clienteRepo)
	catalogoService := service.NewCatalogoService(produtoRepo, servicoRepo)
	pacoteService := service.NewPacoteService(pacoteRepo)
	agendamentoService := service.NewAgendamentoService(agendamentoRepo, ledger)
	vendaService := service.NewVendaService(vendaRepo, produtoRepo)

	authHandler := handlers.NewAuthHandler(authService, logger)
	empresaHandler := handlers.NewEmpresaHandler(empresaService, logger)
	clienteHandler := handlers.NewClienteHandler(clienteService, logger)
	catalogoHandler := handlers.NewCatalogoHandler(catalogoService, logger)
	pacoteHandler := handlers.NewPacoteHandler(pacoteService, logger)
	agendamentoHandler := handlers.NewAgendamentoHandler(agendamentoService, logger)
	vendaHandler := handlers.NewVendaHandler(vendaService, logger)

	// Router HTTP
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))

	corsOptions := cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
		Debug:            false,
	}
	corsHandler := cors.New(corsOptions)
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		// Rotas públicas: resolvem o tenant pelo header X-Empresa (ou
		// token, se houver), mas não exigem autenticação.
		r.Group(func(r chi.Router) {
			r.Use(middleware.WithTenantDB(resolver, dbRouter))

			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/forgot-password", authHandler.ForgotPassword)
			r.Post("/auth/reset-password", authHandler.ResetPassword)
		})

		// Rotas autenticadas.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(codec))
			r.Use(middleware.WithTenantDB(resolver, dbRouter))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/clientes", func(r chi.Router) {
				r.Get("/", clienteHandler.List)
				r.Post("/", clienteHandler.Create)
				r.Get("/{id}", clienteHandler.Get)
				r.Put("/{id}", clienteHandler.Update)
				r.Delete("/{id}", clienteHandler.Delete)
				r.Get("/{id}/pets", clienteHandler.ListPets)
			})

			r.Get("/produtos", catalogoHandler.ListProdutos)
			r.Get("/servicos", catalogoHandler.ListServicos)

			r.Route("/pacotes", func(r chi.Router) {
				r.Get("/", pacoteHandler.List)
				r.Post("/", pacoteHandler.Create)
				r.Get("/{id}", pacoteHandler.Get)
				r.Put("/{id}", pacoteHandler.Update)
				r.Delete("/{id}", pacoteHandler.Delete)
				r.Post("/vender", pacoteHandler.Vender)
				r.Get("/clientes/{id}/usos", pacoteHandler.ListUsos)
			})

			r.Route("/agendamentos", func(r chi.Router) {
				r.Get("/", agendamentoHandler.List)
				r.Post("/", agendamentoHandler.Create)
				r.Get("/hoje", agendamentoHandler.ListHoje)
				r.Get("/calendario", agendamentoHandler.Calendario)
				r.Patch("/{id}/status", agendamentoHandler.UpdateStatus)
			})

			r.Route("/vendas", func(r chi.Router) {
				r.Get("/", vendaHandler.List)
				r.Post("/", vendaHandler.Create)
				r.Get("/{id}", vendaHandler.Get)
			})

			r.Route("/empresas", func(r chi.Router) {
				r.Get("/minha", empresaHandler.GetMinha)
				r.Put("/minha", empresaHandler.UpdateMinha)
				r.Get("/minha/dashboard", empresaHandler.Dashboard)
				r.Get("/minha/config", empresaHandler.ListConfiguracoes)
				r.Get("/minha/config/{chave}", empresaHandler.GetConfiguracao)
				r.Put("/minha/config/{chave}", empresaHandler.PutConfiguracao)
				r.Get("/", empresaHandler.List)
				r.Post("/", empresaHandler.Create)
				r.Post("/{id}/provisionar", empresaHandler.Provisionar)
			})
		})
	})

	// Health check contra o banco default.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := defaultDB.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}
	slog.Info("Server exited gracefully.")
}
