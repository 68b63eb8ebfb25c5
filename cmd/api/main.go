package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/docs"
	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/application/orders"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain/currency"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
	"github.com/jhoicas/Caja-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Caja-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Caja-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Caja-api/internal/interfaces/http"
	"github.com/jhoicas/Caja-api/pkg/config"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// storage transacciones + repositorios fuera de transacción para el driver elegido.
type storage struct {
	txRunner repository.TxRunner
	repos    repository.TxRepos
	ping     func(ctx context.Context) error
	close    func()
}

func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*storage, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn().Msg("driver en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			txRunner: store,
			repos:    store.Repos(),
			ping:     func(context.Context) error { return nil },
			close:    func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := postgres.Migrate(cfg.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &storage{
		txRunner: postgres.NewTxRunner(pool),
		repos:    postgres.NewRepos(pool),
		ping:     postgres.NewPinger(pool).Ping,
		close:    pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	fallbackRate := decimal.Zero
	if cfg.Sales.DefaultExchangeRate != nil {
		fallbackRate = *cfg.Sales.DefaultExchangeRate
	}
	rates := sales.NewRateProvider(fallbackRate)
	converter := currency.NewConverter(cfg.Sales.BaseCurrency, cfg.Sales.ForeignCurrency)

	recorder := metrics.NewRecorder("caja", nil)

	saleUC := sales.NewSaleUseCase(st.txRunner, st.repos, rates, converter, log.Component("sales")).
		WithMetrics(recorder)
	orderUC := orders.NewOrderUseCase(st.txRunner, st.repos, saleUC, log.Component("orders")).
		WithMetrics(recorder)
	productUC := usecase.NewProductUseCase(st.txRunner, st.repos.Products)
	inventoryUC := inventory.NewInventoryUseCase(st.txRunner, st.repos, log.Component("inventory"))
	settingsUC := usecase.NewSettingsUseCase(st.repos.Settings, rates, converter, log.Component("settings"))

	// PDF: comprobante de venta (no fiscal)
	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name, cfg.Sales.BaseCurrency)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	if cfg.Metrics.Enabled {
		app.Use(recorder.Middleware())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Caja API",
	}))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := st.ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaleUC:      saleUC,
		OrderUC:     orderUC,
		ProductUC:   productUC,
		InventoryUC: inventoryUC,
		SettingsUC:  settingsUC,
		Receipts:    receipts,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
