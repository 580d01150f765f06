// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core (validation, rendering, the page controller) depends only
// on these abstractions. Concrete adapters live in the infrastructure layer:
// the HTTP transport to the calculation service, the storage backends, the
// table and SVG surfaces, and the web and CLI front ends.
package ports

import (
	"context"
	"net/url"

	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/pkg/svg"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.areacheck/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Calculator submits a validated point to the external calculation service.
// A failed call returns a *domain.TransportError and no record.
type Calculator interface {
	Calculate(ctx context.Context, point domain.Point) (domain.ResultRecord, error)
}

// ServiceProber checks that the calculation service answers at all.
type ServiceProber interface {
	Probe(ctx context.Context) error
}

// KeyValueStore is the durable storage port: one opaque value per key.
// Get returns domain.ErrNotFound for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// HistoryRepository owns the ordered (newest-first) list of past results.
type HistoryRepository interface {
	Load(ctx context.Context) []domain.ResultRecord
	Save(ctx context.Context, records []domain.ResultRecord) error
	Prepend(ctx context.Context, record domain.ResultRecord) error
	Clear(ctx context.Context) error
}

// TableSink is the visible results table.
type TableSink interface {
	InsertTop(row domain.TableRow)
	Reset()
	Rows() []domain.TableRow
}

// GraphLayer is one independently redrawn group of SVG elements.
type GraphLayer interface {
	Clear()
	Append(el svg.Element)
	Elements() []svg.Element
}

// AddressBar is the visible page address. Replace rewrites the query without
// creating a new navigation entry.
type AddressBar interface {
	Replace(query url.Values)
	Location() string
	Query() url.Values
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
