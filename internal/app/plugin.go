package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/clock"
	"github.com/dshills/mindkeys/internal/config"
	"github.com/dshills/mindkeys/internal/focus"
	"github.com/dshills/mindkeys/internal/input/key"
	"github.com/dshills/mindkeys/internal/input/keymap"
	"github.com/dshills/mindkeys/internal/logging"
	"github.com/dshills/mindkeys/internal/node"
)

// Host is the application embedding the plugin.
type Host interface {
	// ActiveCanvas returns the canvas of the active view when that view is
	// a canvas that has finished loading.
	ActiveCanvas() (canvas.Canvas, bool)
}

// Plugin is the host-facing lifecycle of mindkeys.
type Plugin struct {
	host      Host
	clock     clock.Clock
	readiness *Readiness
	registry  *keymap.Registry
	log       *logging.Logger
	notify    func(string)
	newID     node.IDFunc

	mu           sync.Mutex
	settings     config.Settings
	settingsPath string
	session      *Session
}

// Option configures a Plugin.
type Option func(*pluginOptions)

type pluginOptions struct {
	settings     config.Settings
	settingsPath string
	clock        clock.Clock
	log          *logging.Logger
	notify       func(string)
	newID        node.IDFunc
}

// WithSettings sets the initial settings.
func WithSettings(s config.Settings) Option {
	return func(o *pluginOptions) { o.settings = s }
}

// WithSettingsPath sets the file SetHotkey persists to.
func WithSettingsPath(path string) Option {
	return func(o *pluginOptions) { o.settingsPath = path }
}

// WithClock sets the base clock. Timer callbacks are still posted to the loop.
func WithClock(c clock.Clock) Option {
	return func(o *pluginOptions) { o.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *pluginOptions) { o.log = l }
}

// WithNotifier sets the callback receiving user-facing messages.
func WithNotifier(fn func(string)) Option {
	return func(o *pluginOptions) { o.notify = fn }
}

// WithIDFunc overrides node id allocation.
func WithIDFunc(f node.IDFunc) Option {
	return func(o *pluginOptions) { o.newID = f }
}

// NewPlugin creates a plugin for host whose timers run on loop.
func NewPlugin(host Host, loop *Loop, opts ...Option) *Plugin {
	o := pluginOptions{
		settings: config.Default(),
		clock:    clock.Real(),
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var poll Poll
	if host != nil {
		poll = host.ActiveCanvas
	}
	return &Plugin{
		host:         host,
		clock:        clock.Posting(o.clock, func(f func()) { loop.Post(f) }),
		readiness:    NewReadiness(poll, o.clock),
		registry:     keymap.NewRegistry(),
		log:          o.log,
		notify:       o.notify,
		newID:        o.newID,
		settings:     o.settings,
		settingsPath: o.settingsPath,
	}
}

// Load waits for a canvas, then registers the triggers for it. It returns
// ErrCanvasTimeout when no canvas appears within the configured timeout.
func (p *Plugin) Load(ctx context.Context) error {
	p.mu.Lock()
	timeout := p.settings.Timing.ReadyTimeout.Std()
	p.mu.Unlock()

	c, err := p.readiness.Wait(ctx, timeout)
	if err != nil {
		p.log.Error("waiting for canvas: %v", err)
		return err
	}
	p.log.Info("canvas ready")
	return p.activate(c)
}

// ViewChanged tells the plugin which view became active. c is the view's
// canvas, or nil when the view is not a canvas; triggers are unregistered
// until a canvas view returns.
func (p *Plugin) ViewChanged(c canvas.Canvas) error {
	if c == nil {
		p.deactivate()
		p.readiness.Reset()
		return nil
	}
	p.readiness.Resolve(c)
	return p.activate(c)
}

// HandleKey offers a key event to the triggers. It reports whether the
// event was consumed.
func (p *Plugin) HandleKey(ev key.Event) bool {
	p.mu.Lock()
	s := p.session
	p.mu.Unlock()

	if s == nil {
		return false
	}
	return s.HandleKey(ev)
}

// SelectionChanged tells the plugin the host selection changed.
func (p *Plugin) SelectionChanged() {
	p.mu.Lock()
	s := p.session
	p.mu.Unlock()

	if s != nil {
		s.SelectionChanged()
	}
}

// SetHotkey rebinds one action. Invalid hotkeys are rejected and the
// current binding kept. The settings file, when configured, is rewritten.
func (p *Plugin) SetHotkey(action, text string) error {
	next := p.Settings()
	if err := next.SetHotkey(action, text); err != nil {
		return err
	}

	p.mu.Lock()
	path := p.settingsPath
	p.mu.Unlock()
	if path != "" {
		if err := next.Save(path); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
	}
	return p.ApplySettings(next)
}

// ApplySettings replaces the settings and rebuilds the active session.
func (p *Plugin) ApplySettings(s config.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if level, ok := logging.ParseLevel(s.Log.Level); ok {
		p.log.SetLevel(level)
	}

	p.mu.Lock()
	p.settings = s
	old := p.session
	p.session = nil
	p.mu.Unlock()

	if old == nil {
		return nil
	}
	old.Close()
	return p.activate(old.Canvas())
}

// Unload unregisters every trigger and forgets the canvas.
func (p *Plugin) Unload() {
	p.deactivate()
	p.readiness.Reset()
	p.log.Info("unloaded")
}

// Settings returns the current settings.
func (p *Plugin) Settings() config.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// Active reports whether triggers are registered.
func (p *Plugin) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil
}

// State returns the focus state of the active session, or View.
func (p *Plugin) State() focus.State {
	p.mu.Lock()
	s := p.session
	p.mu.Unlock()

	if s == nil {
		return focus.View
	}
	return s.State()
}

// Bindings returns the registered triggers.
func (p *Plugin) Bindings() []keymap.Binding {
	return p.registry.Bindings()
}

func (p *Plugin) activate(c canvas.Canvas) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		if p.session.Canvas() == c {
			return nil
		}
		p.session.Close()
		p.session = nil
	}

	s, err := NewSession(SessionConfig{
		Canvas:   c,
		Settings: p.settings,
		Registry: p.registry,
		Clock:    p.clock,
		Logger:   p.log,
		Notify:   p.notify,
		IDFunc:   p.newID,
	})
	if err != nil {
		p.log.Error("registering triggers: %v", err)
		return err
	}
	p.session = s
	p.log.Debug("registered %d triggers", p.registry.Len())
	return nil
}

func (p *Plugin) deactivate() {
	p.mu.Lock()
	s := p.session
	p.session = nil
	p.mu.Unlock()

	if s != nil {
		s.Close()
		p.log.Debug("triggers unregistered")
	}
}
