package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/arf/areacheck/internal/application/doctor"
	"github.com/arf/areacheck/internal/application/graph"
	"github.com/arf/areacheck/internal/application/page"
	"github.com/arf/areacheck/internal/application/validation"
	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/infrastructure/config"
	"github.com/arf/areacheck/internal/infrastructure/history"
	"github.com/arf/areacheck/internal/infrastructure/storage"
	"github.com/arf/areacheck/internal/infrastructure/surface"
	"github.com/arf/areacheck/internal/infrastructure/transport"
	"github.com/arf/areacheck/internal/pkg/logger"
	"github.com/arf/areacheck/internal/ports"
)

// Options controls container construction.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         *logger.ZapLogger
	Store          ports.KeyValueStore
	HistoryStore   *history.Store
	Calculator     *transport.Client
	Guard          *validation.Guard
	DoctorService  *doctor.Service
}

// Session is one page: a controller plus the surfaces it draws on.
type Session struct {
	Controller *page.Controller
	Table      *surface.Table
	Graph      *surface.Graph
	Address    *surface.Address
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(opts.Verbose)
	log.Debug("configuration loaded", map[string]interface{}{
		"path":    cfgLoader.Path(),
		"backend": cfg.Storage.Backend,
		"service": cfg.Service.Endpoint,
	})

	store, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	historyStore := history.NewStore(store, cfg.Storage.Key, log)
	calculator := transport.NewClient(cfg.Service, &http.Client{}, log)

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Store:          store,
		Prober:         calculator,
		History:        historyStore,
	}

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Store:          store,
		HistoryStore:   historyStore,
		Calculator:     calculator,
		Guard:          validation.NewGuard(cfg.Form),
		DoctorService:  doctorService,
	}, nil
}

// NewSession builds a fresh page session. basePath is the address the
// session's share links are relative to.
func (c *Container) NewSession(basePath string) (*Session, error) {
	if c.Store == nil {
		return nil, errors.New("container not initialized")
	}
	unit := c.Config.Graph.Unit
	if !(unit > 0) {
		unit = domain.DefaultGraphUnit
	}
	sess := &Session{
		Table:   surface.NewTable(),
		Graph:   surface.NewGraph(unit),
		Address: surface.NewAddress(basePath),
	}
	ctrl, err := page.New(page.Options{
		Guard:             c.Guard,
		Calculator:        c.Calculator,
		History:           c.HistoryStore,
		Table:             sess.Table,
		Graph:             graph.NewRenderer(sess.Graph.Layers(), unit),
		Address:           sess.Address,
		Logger:            c.Logger,
		DefaultRadius:     c.Config.Form.DefaultR,
		StrictPersistence: c.Config.Storage.Strict,
	})
	if err != nil {
		return nil, err
	}
	sess.Controller = ctrl
	return sess, nil
}

// Close releases storage and flushes logs.
func (c *Container) Close() error {
	var err error
	if c.Store != nil {
		err = c.Store.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return err
}
