// Package host is a small in-process chat-bot host. It routes slash
// commands from a sender to registered handlers and runs plugin lifecycle
// hooks.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/matsen/memo/internal/logging"
	"golang.org/x/time/rate"
)

// ThrottledReply is sent instead of dispatching when a sender exceeds the
// configured rate.
const ThrottledReply = "操作过于频繁，请稍后再试。"

// ErrUnknownCommand is returned by Dispatch for an unregistered command.
var ErrUnknownCommand = errors.New("unknown command")

// ErrDuplicateCommand is returned by Register when a name is already bound.
var ErrDuplicateCommand = errors.New("command already registered")

// Event is one incoming message.
type Event struct {
	SenderID string
	Text     string
}

// Reply is the ordered list of plain-text messages sent back to the sender.
type Reply []string

// HandlerFunc handles one command. args is the message text after the
// command name with surrounding whitespace removed.
type HandlerFunc func(ctx context.Context, ev Event, args string) (Reply, error)

// Plugin is a unit with lifecycle hooks and a set of commands.
type Plugin interface {
	Name() string
	Initialize(ctx context.Context) error
	Terminate(ctx context.Context) error
	Commands() map[string]HandlerFunc
}

// Options configures a Host.
type Options struct {
	// RateLimit is the sustained number of commands per second allowed for
	// each sender. Zero disables throttling.
	RateLimit float64
	// Burst is the number of commands a sender may issue at once.
	// Values below 1 are treated as 1.
	Burst  int
	Logger *slog.Logger
}

// Host owns the command table and the registered plugins.
type Host struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	plugins  []Plugin
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	logger   *slog.Logger
}

// New creates a host with no plugins.
func New(opts Options) *Host {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	return &Host{
		handlers: make(map[string]HandlerFunc),
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(opts.RateLimit),
		burst:    burst,
		logger:   logger,
	}
}

// Register binds a handler to a command name.
func (h *Host) Register(name string, fn HandlerFunc) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.handlers[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	h.handlers[name] = fn
	return nil
}

// Install registers every command of p and remembers it for Start and Stop.
func (h *Host) Install(p Plugin) error {
	for name, fn := range p.Commands() {
		if err := h.Register(name, fn); err != nil {
			return fmt.Errorf("installing %s: %w", p.Name(), err)
		}
	}
	h.mu.Lock()
	h.plugins = append(h.plugins, p)
	h.mu.Unlock()
	return nil
}

// Start runs Initialize on every installed plugin in install order.
func (h *Host) Start(ctx context.Context) error {
	for _, p := range h.installed() {
		if err := p.Initialize(ctx); err != nil {
			return fmt.Errorf("starting %s: %w", p.Name(), err)
		}
		h.logger.Debug("plugin started", "plugin", p.Name())
	}
	return nil
}

// Stop runs Terminate on every installed plugin in reverse install order.
// All plugins are stopped even if one fails; the errors are joined.
func (h *Host) Stop(ctx context.Context) error {
	plugins := h.installed()
	var errs []error
	for i := len(plugins) - 1; i >= 0; i-- {
		if err := plugins[i].Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping %s: %w", plugins[i].Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (h *Host) installed() []Plugin {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Plugin(nil), h.plugins...)
}

// ParseCommand splits a message of the form "/name args" into its parts.
// The leading slash is optional. ok is false for blank messages.
func ParseCommand(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "/")
	if text == "" {
		return "", "", false
	}
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		return text[:i], strings.TrimSpace(text[i:]), true
	}
	return text, "", true
}

// Dispatch routes ev to its handler. Blank messages produce an empty reply.
func (h *Host) Dispatch(ctx context.Context, ev Event) (Reply, error) {
	name, args, ok := ParseCommand(ev.Text)
	if !ok {
		return nil, nil
	}

	h.mu.Lock()
	fn, found := h.handlers[name]
	h.mu.Unlock()
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	if !h.allow(ev.SenderID) {
		h.logger.Warn("command throttled", "sender", ev.SenderID, "command", name)
		return Reply{ThrottledReply}, nil
	}

	h.logger.Debug("dispatching command", "sender", ev.SenderID, "command", name)
	return fn(ctx, ev, args)
}

// allow reports whether sender may issue another command now.
func (h *Host) allow(sender string) bool {
	if h.limit <= 0 {
		return true
	}

	h.mu.Lock()
	lim, ok := h.limiters[sender]
	if !ok {
		lim = rate.NewLimiter(h.limit, h.burst)
		h.limiters[sender] = lim
	}
	h.mu.Unlock()

	return lim.Allow()
}
