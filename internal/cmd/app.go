package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/cactus-admin-api/internal/application/service"
	"github.com/sangkips/cactus-admin-api/internal/config"
	"github.com/sangkips/cactus-admin-api/internal/document"
	"github.com/sangkips/cactus-admin-api/internal/infrastructure/database"
	"github.com/sangkips/cactus-admin-api/internal/infrastructure/repository"
	"github.com/sangkips/cactus-admin-api/internal/render"
	"github.com/sangkips/cactus-admin-api/pkg/logger"
	"github.com/sangkips/cactus-admin-api/pkg/printer"
	"github.com/sangkips/cactus-admin-api/pkg/utils"
	"gorm.io/gorm"
)

const (
	assetTimeout  = 5 * time.Second
	assetCacheTTL = 10 * time.Minute
)

// app is the wired object graph shared by the subcommands.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB

	jwt           *utils.JWTManager
	fonts         *render.Fonts
	printer       printer.Printer
	auth          *service.AuthService
	orders        *service.OrderService
	customers     *service.CustomerService
	deliveryNotes *service.DeliveryNoteService
}

// loadConfig reads the configuration and builds the process logger.
func loadConfig() (*config.Config, zerolog.Logger) {
	cfg := config.Load()
	return cfg, logger.New(cfg.App.LogLevel, cfg.App.Env)
}

func newApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Env, log)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// Document pipeline
	loc, err := time.LoadLocation(cfg.Document.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Document.Timezone).Msg("unknown document time zone, using UTC")
		loc = time.UTC
	}
	builder := document.NewBuilder(document.Letterhead{
		Name:    cfg.Company.Name,
		Street:  cfg.Company.Street,
		City:    cfg.Company.City,
		Country: cfg.Company.Country,
		Phone:   cfg.Company.Phone,
		Email:   cfg.Company.Email,
		Website: cfg.Company.Website,
	}, loc)

	fonts := render.NewFonts(cfg.Document.FontDir)
	assets := render.NewHTTPAssetLoader(assetTimeout, assetCacheTTL)
	preview, err := render.NewHTMLRenderer("/fonts")
	if err != nil {
		return nil, err
	}
	renderers := service.Renderers{
		PDF:     render.NewPDFRenderer(fonts, assets, cfg.Company.Name, log),
		Preview: preview,
		Slip:    render.NewESCPOSRenderer(cfg.Printer.SlipWidth),
	}

	// Initialize printer
	p, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warn().Err(err).Str("type", cfg.Printer.Type).Msg("failed to initialize printer, printing disabled")
		p = printer.NewNullPrinter()
	}

	// Initialize services
	jwtManager := utils.NewJWTManager(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.TokenExpiry)
	authService, err := service.NewAuthService(cfg.Auth.AdminPassword, jwtManager)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		jwt:       jwtManager,
		fonts:     fonts,
		printer:   p,
		auth:      authService,
		orders:    service.NewOrderService(orderRepo, customerRepo),
		customers: service.NewCustomerService(customerRepo),
		deliveryNotes: service.NewDeliveryNoteService(
			orderRepo,
			customerRepo,
			builder,
			renderers,
			p,
			service.DeliveryNoteConfig{
				LogoPath:    cfg.Document.LogoPath,
				PrintFormat: cfg.Printer.Format,
				PrinterType: cfg.Printer.Type,
			},
			log,
		),
	}, nil
}

// Close releases the printer and the database pool.
func (a *app) Close() {
	if err := a.printer.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close printer")
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
