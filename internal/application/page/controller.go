// Package page implements the page session: it wires form events to
// validation, transport, history and the table and graph renderers.
package page

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/arf/areacheck/internal/application/graph"
	"github.com/arf/areacheck/internal/application/table"
	"github.com/arf/areacheck/internal/application/validation"
	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/ports"
)

// Options carries the controller's collaborators.
type Options struct {
	Guard             *validation.Guard
	Calculator        ports.Calculator
	History           ports.HistoryRepository
	Table             ports.TableSink
	Graph             *graph.Renderer
	Address           ports.AddressBar
	Logger            ports.Logger
	DefaultRadius     float64
	StrictPersistence bool
}

// View is an immutable snapshot of the page for rendering.
type View struct {
	SessionID string
	Started   bool
	Form      domain.FormInput
	Message   string
	Busy      bool
	Rows      []domain.TableRow
	Graph     domain.GraphState
	Location  string
}

// Controller owns one page session. It is safe for concurrent use; the
// state lock is released while a request to the calculation service is
// outstanding, and a busy flag rejects overlapping submissions.
type Controller struct {
	opts  Options
	table *table.Renderer

	mu        sync.Mutex
	sessionID string
	started   bool
	busy      bool
	form      domain.FormInput
	message   string
	graph     domain.GraphState
}

// New validates the collaborators and returns a controller.
func New(opts Options) (*Controller, error) {
	if opts.Guard == nil || opts.Calculator == nil || opts.History == nil ||
		opts.Table == nil || opts.Graph == nil || opts.Address == nil || opts.Logger == nil {
		return nil, errors.New("page.Controller dependencies not satisfied")
	}
	if !(opts.DefaultRadius > 0) {
		opts.DefaultRadius = domain.DefaultRadius
	}
	return &Controller{
		opts:      opts,
		table:     table.NewRenderer(opts.Table),
		sessionID: uuid.NewString(),
	}, nil
}

// Start restores the page from an address. A complete x/y/r query replays
// that submission unless the page already shows it, so reloading a replaced
// address is a no-op while opening a different link replays it. The first
// call without a complete query hydrates the table from history and selects
// the default radius. Other calls return RestoreNone.
func (c *Controller) Start(ctx context.Context, query url.Values) (RestoreMode, error) {
	in := domain.FormInput{
		X: strings.TrimSpace(query.Get(domain.ParamX)),
		Y: strings.TrimSpace(query.Get(domain.ParamY)),
		R: strings.TrimSpace(query.Get(domain.ParamR)),
	}

	c.mu.Lock()
	first := !c.started
	c.started = true

	if in.Complete() && !c.showingLocked(in) {
		c.opts.Logger.Info("restoring page from address", map[string]interface{}{
			"session": c.sessionID,
			"query":   query.Encode(),
		})
		sub, err := c.beginLocked(in)
		if err != nil {
			if c.graph.R == 0 {
				c.selectRadiusLocked(c.opts.DefaultRadius)
			}
			c.mu.Unlock()
			return RestoreReplay, err
		}
		c.selectRadiusLocked(sub.point.R)
		sub.radius = c.graph.R
		c.mu.Unlock()
		_, err = c.complete(ctx, sub)
		return RestoreReplay, err
	}
	defer c.mu.Unlock()
	if !first {
		return RestoreNone, nil
	}

	records := c.opts.History.Load(ctx)
	c.table.Hydrate(records)
	c.form.R = validation.Canonical(c.opts.DefaultRadius)
	c.selectRadiusLocked(c.opts.DefaultRadius)
	c.opts.Logger.Info("restored page from history", map[string]interface{}{
		"session": c.sessionID,
		"records": len(records),
	})
	return RestoreHydrate, nil
}

// Submit validates the form, calls the calculation service and, on success,
// updates the table, history, graph and address.
func (c *Controller) Submit(ctx context.Context, in domain.FormInput) (domain.ResultRecord, error) {
	c.mu.Lock()
	sub, err := c.beginLocked(in)
	c.mu.Unlock()
	if err != nil {
		return domain.ResultRecord{}, err
	}
	return c.complete(ctx, sub)
}

// submission is a validated request holding the in-flight guard.
type submission struct {
	point  domain.Point
	radius float64
}

// beginLocked validates in and takes the in-flight guard. c.mu must be held.
func (c *Controller) beginLocked(in domain.FormInput) (submission, error) {
	if c.busy {
		c.message = domain.TransportErrorPrefix + domain.ErrSubmitInFlight.Error()
		return submission{}, domain.ErrSubmitInFlight
	}
	c.message = ""
	c.form = in

	point, err := c.opts.Guard.Validate(in)
	if err != nil {
		c.message = err.Error()
		return submission{}, err
	}
	c.form.Y = point.YRaw
	c.busy = true
	return submission{point: point, radius: c.graph.R}, nil
}

// complete sends sub to the calculation service and applies the response.
// It releases the in-flight guard taken by beginLocked.
func (c *Controller) complete(ctx context.Context, sub submission) (domain.ResultRecord, error) {
	point := sub.point
	record, err := c.opts.Calculator.Calculate(ctx, point)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if err != nil {
		c.message = domain.TransportErrorPrefix + err.Error()
		c.opts.Logger.Warn("calculation failed", map[string]interface{}{
			"session": c.sessionID,
			"error":   err.Error(),
		})
		return domain.ResultRecord{}, err
	}

	// A radius picked while the request was outstanding is kept.
	if c.graph.R == sub.radius && record.R != c.graph.R {
		c.selectRadiusLocked(record.R)
	}
	c.table.Add(record)
	if record.R == c.graph.R {
		c.opts.Graph.DrawPoint(record.X, record.Y, record.R, record.Hit)
		c.graph.Point = &domain.PlottedPoint{X: record.X, Y: record.Y, Hit: record.Hit}
	}
	c.opts.Address.Replace(url.Values{
		domain.ParamX: {point.XRaw},
		domain.ParamY: {point.YRaw},
		domain.ParamR: {point.RRaw},
	})

	if err := c.opts.History.Prepend(ctx, record); err != nil {
		c.opts.Logger.Warn("history not saved", map[string]interface{}{
			"session": c.sessionID,
			"error":   err.Error(),
		})
		if c.opts.StrictPersistence {
			c.message = domain.TransportErrorPrefix + "history not saved: " + err.Error()
			return record, fmt.Errorf("save history: %w", err)
		}
	}
	return record, nil
}

// showingLocked reports whether the address already carries in.
func (c *Controller) showingLocked(in domain.FormInput) bool {
	point, err := c.opts.Guard.Validate(in)
	if err != nil {
		return false
	}
	q := c.opts.Address.Query()
	return q.Get(domain.ParamX) == point.XRaw &&
		q.Get(domain.ParamY) == point.YRaw &&
		q.Get(domain.ParamR) == point.RRaw
}

// SelectRadius records a radius choice and redraws the tick labels.
func (c *Controller) SelectRadius(raw string) error {
	raw = strings.TrimSpace(raw)
	r, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(r > 0) {
		return &domain.ValidationError{
			Field:   domain.ParamR,
			Message: "Please select an R value.",
			Err:     domain.ErrSelectR,
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.R = raw
	c.selectRadiusLocked(r)
	return nil
}

// Clear resets the table, the plotted point, the persisted history and the
// visible address.
func (c *Controller) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table.Reset()
	c.opts.Graph.ClearPoint()
	c.graph.Point = nil
	c.message = ""
	c.opts.Address.Replace(nil)
	if err := c.opts.History.Clear(ctx); err != nil {
		c.opts.Logger.Warn("history not cleared", map[string]interface{}{
			"session": c.sessionID,
			"error":   err.Error(),
		})
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Snapshot returns the current page state.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		SessionID: c.sessionID,
		Started:   c.started,
		Form:      c.form,
		Message:   c.message,
		Busy:      c.busy,
		Rows:      c.opts.Table.Rows(),
		Graph:     c.graph,
		Location:  c.opts.Address.Location(),
	}
	if c.graph.Point != nil {
		p := *c.graph.Point
		v.Graph.Point = &p
	}
	return v
}

// selectRadiusLocked redraws ticks; a changed radius invalidates the point.
func (c *Controller) selectRadiusLocked(r float64) {
	c.opts.Graph.UpdateGraphLabels(r)
	if r != c.graph.R {
		c.opts.Graph.ClearPoint()
		c.graph.Point = nil
	}
	c.graph.R = r
}
