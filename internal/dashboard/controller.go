// Package dashboard owns the dashboard view state and the request-cycle state
// machine (idle, loading, ready, failed) driven by geolocation and city
// submissions.
//
// All mutations happen on the goroutine running Controller.Run. Operations are
// posted to it as commands; geolocation and gateway calls run in their own
// goroutines and post exactly one result back. Each request cycle carries a
// generation number and a resolution from a superseded cycle is discarded, so
// the most recent submission always wins.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrStopped is returned by operations once Run has exited.
	ErrStopped = errors.New("dashboard controller stopped")
	// ErrDuplicateFavorite rejects pinning a city that is already a favorite.
	ErrDuplicateFavorite = errors.New("city is already a favorite")
	// ErrNoReading is returned by AddCurrentToFavorites before any reading
	// has been accepted. The state is left untouched.
	ErrNoReading = errors.New("no current reading")
)

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = l }
}

// WithForecaster sets the source of the synthetic outlook.
func WithForecaster(f *weather.Forecaster) Option {
	return func(c *Controller) { c.forecaster = f }
}

// WithHistory records every accepted reading in h.
func WithHistory(h weather.History) Option {
	return func(c *Controller) { c.history = h }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithFetchTimeout bounds each gateway call. Zero means no bound, in which
// case a hung provider leaves the cycle loading until it answers.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.fetchTimeout = d }
}

// WithLocateTimeout bounds each geolocation query.
func WithLocateTimeout(d time.Duration) Option {
	return func(c *Controller) { c.locateTimeout = d }
}

type command struct {
	apply func(ctx context.Context) error
	reply chan error
}

// resolution is the single outcome of a gateway call.
type resolution struct {
	generation uint64
	cycleID    string
	reading    weather.Reading
	err        error
}

// position is the single outcome of a geolocation query.
type position struct {
	generation uint64
	coords     weather.Coordinates
	err        error
}

// Controller owns a ViewState and serializes every change to it.
type Controller struct {
	gateway       weather.Gateway
	locator       geo.Locator
	forecaster    *weather.Forecaster
	history       weather.History
	metrics       *metrics.Metrics
	log           logrus.FieldLogger
	fetchTimeout  time.Duration
	locateTimeout time.Duration

	commands  chan command
	results   chan resolution
	positions chan position
	stopped   chan struct{}
	running   atomic.Bool

	// Owned by the Run goroutine.
	state      ViewState
	generation uint64

	snapshot atomic.Pointer[ViewState]
}

// NewController returns a controller fetching through gateway. A nil locator
// means geolocation is not available.
func NewController(gateway weather.Gateway, locator geo.Locator, opts ...Option) *Controller {
	c := &Controller{
		gateway:   gateway,
		locator:   locator,
		log:       logrus.StandardLogger(),
		commands:  make(chan command),
		results:   make(chan resolution),
		positions: make(chan position),
		stopped:   make(chan struct{}),
		state:     newViewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.forecaster == nil {
		c.forecaster = weather.NewForecaster(nil)
	}
	c.log = c.log.WithField("component", "dashboard")
	c.publish()
	return c
}

// Run processes commands and resolutions until ctx is done. It may be called
// once; every operation returns ErrStopped after it exits.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("dashboard controller already started")
	}
	defer close(c.stopped)

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-c.commands:
			err := cmd.apply(ctx)
			c.publish()
			cmd.reply <- err
		case res := <-c.results:
			c.resolve(res)
			c.publish()
		case pos := <-c.positions:
			c.located(ctx, pos)
			c.publish()
		}
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	return c.snapshot.Load().clone()
}

// Initialize asks the geolocation source for a position and, on success,
// starts a cycle for it. Without a source it only sets an error message.
func (c *Controller) Initialize() error {
	return c.do(func(ctx context.Context) error {
		if c.locator == nil {
			c.log.Warn("geolocation source unavailable")
			c.state.ErrorMessage = MessageGeolocationUnsupported
			return nil
		}

		gen := c.generation
		go func() {
			lctx, cancel := withOptionalTimeout(ctx, c.locateTimeout)
			defer cancel()

			coords, err := c.locator.Locate(lctx)
			if err != nil && errors.Is(lctx.Err(), context.DeadlineExceeded) && !errors.Is(err, geo.ErrTimeout) {
				err = fmt.Errorf("%w: %v", geo.ErrTimeout, err)
			}
			select {
			case c.positions <- position{generation: gen, coords: coords, err: err}:
			case <-c.stopped:
			}
		}()
		return nil
	})
}

// SubmitCityName starts a cycle for the trimmed input. Blank input is
// ignored without touching the state.
func (c *Controller) SubmitCityName(raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return nil
	}
	return c.do(func(ctx context.Context) error {
		c.startCycle(ctx, logrus.Fields{"city": name}, func(ctx context.Context) (weather.Reading, error) {
			return c.gateway.FetchByCityName(ctx, name)
		})
		return nil
	})
}

// SelectFavorite re-fetches live data for a favorite; the stored snapshot is
// not reused.
func (c *Controller) SelectFavorite(city weather.FavoriteCity) error {
	return c.SubmitCityName(city.Name)
}

// Refresh re-fetches the current location. It does nothing before the first
// accepted reading.
func (c *Controller) Refresh() error {
	return c.do(func(ctx context.Context) error {
		if c.state.Current == nil {
			return nil
		}
		name := c.state.Current.LocationName
		c.startCycle(ctx, logrus.Fields{"city": name, "refresh": true}, func(ctx context.Context) (weather.Reading, error) {
			return c.gateway.FetchByCityName(ctx, name)
		})
		return nil
	})
}

// ToggleUnit flips between Celsius and Fahrenheit display.
func (c *Controller) ToggleUnit() error {
	return c.do(func(context.Context) error {
		c.state.IsCelsius = !c.state.IsCelsius
		return nil
	})
}

// AddCurrentToFavorites pins a snapshot of the current reading. A city
// already pinned (ignoring case) is rejected with ErrDuplicateFavorite and
// the state is left unchanged.
func (c *Controller) AddCurrentToFavorites() (weather.FavoriteCity, error) {
	var added weather.FavoriteCity
	err := c.do(func(context.Context) error {
		if c.state.Current == nil {
			return ErrNoReading
		}
		if existing, ok := c.state.Favorite(c.state.Current.LocationName); ok {
			return fmt.Errorf("%w: %s", ErrDuplicateFavorite, existing.Name)
		}
		added = weather.NewFavoriteCity(*c.state.Current)
		c.state.Favorites = append(c.state.Favorites, added)
		c.log.WithField("city", added.Name).Info("favorite added")
		return nil
	})
	return added, err
}

// do runs fn on the Run goroutine and waits for it to finish.
func (c *Controller) do(fn func(ctx context.Context) error) error {
	cmd := command{apply: fn, reply: make(chan error, 1)}
	select {
	case c.commands <- cmd:
	case <-c.stopped:
		return ErrStopped
	}
	return <-cmd.reply
}

// startCycle enters the loading phase and launches fetch. Must run on the
// Run goroutine.
func (c *Controller) startCycle(ctx context.Context, fields logrus.Fields, fetch func(context.Context) (weather.Reading, error)) {
	c.generation++
	gen := c.generation
	cycleID := uuid.NewString()

	c.state.IsLoading = true
	c.state.ErrorMessage = ""
	c.state.Phase = PhaseLoading

	log := c.log.WithFields(fields).WithFields(logrus.Fields{"cycle_id": cycleID, "generation": gen})
	log.Debug("request cycle started")

	go func() {
		fctx, cancel := withOptionalTimeout(ctx, c.fetchTimeout)
		defer cancel()

		reading, err := fetch(fctx)
		if err != nil && errors.Is(fctx.Err(), context.DeadlineExceeded) && !errors.Is(err, weather.ErrTransport) {
			err = &weather.ProviderError{Op: "fetch", Kind: weather.ErrTransport, Err: err}
		}
		select {
		case c.results <- resolution{generation: gen, cycleID: cycleID, reading: reading, err: err}:
		case <-c.stopped:
		}
	}()
}

// resolve applies the outcome of a cycle. Must run on the Run goroutine.
func (c *Controller) resolve(res resolution) {
	log := c.log.WithFields(logrus.Fields{"cycle_id": res.cycleID, "generation": res.generation})

	if res.generation != c.generation {
		log.WithField("latest_generation", c.generation).Debug("discarding superseded resolution")
		c.metrics.ObserveCycle("discarded")
		return
	}

	c.state.IsLoading = false

	if res.err != nil {
		// The last good reading stays visible.
		c.state.ErrorMessage = MessageFor(res.err)
		c.state.Phase = PhaseFailed
		log.WithError(res.err).Warn("request cycle failed")
		c.metrics.ObserveCycle("failed")
		return
	}

	reading := res.reading
	c.state.Current = &reading
	c.state.ErrorMessage = ""
	c.state.Forecast = c.forecaster.Derive(reading)
	c.state.Phase = PhaseReady
	if c.history != nil {
		c.history.Record(reading)
	}
	log.WithField("city", reading.LocationName).Info("request cycle succeeded")
	c.metrics.ObserveCycle("ready")
}

// located applies a geolocation outcome. A position obtained after the user
// already started another cycle is dropped. Must run on the Run goroutine.
func (c *Controller) located(ctx context.Context, pos position) {
	if pos.generation != c.generation {
		c.log.Debug("discarding geolocation result superseded by a newer submission")
		return
	}

	if pos.err != nil {
		c.log.WithError(pos.err).Warn("geolocation failed")
		c.state.ErrorMessage = MessageLocationFailed
		return
	}

	coords := pos.coords
	c.startCycle(ctx, logrus.Fields{"lat": coords.Latitude, "lon": coords.Longitude}, func(ctx context.Context) (weather.Reading, error) {
		return c.gateway.FetchByCoordinates(ctx, coords)
	})
}

func (c *Controller) publish() {
	s := c.state.clone()
	c.snapshot.Store(&s)
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
