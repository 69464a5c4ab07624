package datasource

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"stock-trend/src/data_source/alpaca"
	"stock-trend/src/data_source/yahoo"
	"stock-trend/src/helpers"
	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/storage"
)

// SourceManager holds the configured price sources and routes fetches by name.
type SourceManager struct {
	Sources map[string]interfaces.IDataSource
	Logger  *logger.Logger

	mu          sync.RWMutex
	order       []string
	defaultName string
}

// -----------------------------------------------------------------------------

func NewSourceManager(sources []interfaces.IDataSource, defaultName string, log *logger.Logger) (*SourceManager, error) {
	m := &SourceManager{
		Sources: make(map[string]interfaces.IDataSource),
		Logger:  log,
	}
	for _, s := range sources {
		if err := m.AddSource(s); err != nil {
			return nil, err
		}
	}

	if defaultName == "" && len(m.order) > 0 {
		defaultName = m.order[0]
	}
	if _, ok := m.Sources[defaultName]; !ok && len(m.order) > 0 {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("default source %q is not configured", defaultName), nil)
	}
	m.defaultName = defaultName
	return m, nil
}

// -----------------------------------------------------------------------------

// NewSourceManagerFromConfig builds every source listed under data_source.sources.
// With no sources configured a single Yahoo source named "yahoo" is used.
func NewSourceManagerFromConfig(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) (*SourceManager, error) {
	sourceCfgs := cfg.DataSource.Sources
	if len(sourceCfgs) == 0 {
		sourceCfgs = []models.MSourceConfig{{Name: "yahoo", Type: "yahoo"}}
	}

	var built []interfaces.IDataSource
	closeBuilt := func() {
		for _, s := range built {
			if c, ok := s.(io.Closer); ok {
				c.Close()
			}
		}
	}

	for _, sc := range sourceCfgs {
		src, err := buildSource(cfg, sc, netMgr, log)
		if err != nil {
			closeBuilt()
			return nil, fmt.Errorf("source %q: %w", sc.Name, err)
		}
		built = append(built, src)
		log.Info("Configured source %s (%s)", sc.Name, sc.Type)
	}

	m, err := NewSourceManager(built, cfg.DataSource.Default, log)
	if err != nil {
		closeBuilt()
		return nil, err
	}
	return m, nil
}

// -----------------------------------------------------------------------------

func buildSource(cfg *models.MConfig, sc models.MSourceConfig, netMgr interfaces.INetworkManager, log *logger.Logger) (interfaces.IDataSource, error) {
	if sc.Name == "" {
		return nil, helpers.NewConfigurationError("source without name", nil)
	}

	switch strings.ToLower(sc.Type) {
	case "", "yahoo":
		return yahoo.NewYahooFinanceSource(cfg, sc, netMgr), nil
	case "alpaca":
		return alpaca.NewAlpacaSource(sc)
	case "sqlite":
		return storage.NewSQLiteBarStore(sc, log)
	case "postgres":
		return storage.NewPostgresBarStore(sc, log)
	case "parquet":
		return storage.NewParquetBarStore(sc, log)
	default:
		return nil, helpers.NewConfigurationError(fmt.Sprintf("unknown source type %q", sc.Type), nil)
	}
}

// -----------------------------------------------------------------------------

// AddSource registers a source under its name
func (m *SourceManager) AddSource(source interfaces.IDataSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := source.Name()
	if _, exists := m.Sources[name]; exists {
		return helpers.NewConfigurationError(fmt.Sprintf("source %s already exists", name), nil)
	}
	m.Sources[name] = source
	m.order = append(m.order, name)
	return nil
}

// -----------------------------------------------------------------------------

// GetSource returns the named source, or the default when name is empty
func (m *SourceManager) GetSource(name string) (interfaces.IDataSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "" {
		name = m.defaultName
	}
	source, exists := m.Sources[name]
	if !exists {
		return nil, helpers.NewValidationError(fmt.Sprintf("unknown source %q", name), nil)
	}
	return source, nil
}

// -----------------------------------------------------------------------------

func (m *SourceManager) Fetch(ctx context.Context, name, symbol string, start, end time.Time) (models.MPriceSeries, error) {
	source, err := m.GetSource(name)
	if err != nil {
		return models.MPriceSeries{}, err
	}
	return source.Fetch(ctx, symbol, start, end)
}

// -----------------------------------------------------------------------------

// Names lists the sources, default first
func (m *SourceManager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.order))
	if m.defaultName != "" {
		names = append(names, m.defaultName)
	}
	for _, n := range m.order {
		if n != m.defaultName {
			names = append(names, n)
		}
	}
	return names
}

// -----------------------------------------------------------------------------

// Close releases database handles held by storage-backed sources
func (m *SourceManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for name, s := range m.Sources {
		c, ok := s.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			m.Logger.Error("Closing source %s: %v", name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
