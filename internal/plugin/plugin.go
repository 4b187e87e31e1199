// Package plugin implements the memo commands on top of a memo.Store.
//
// Every handler returns exactly one plain-text message. Handlers never fail
// on storage problems: unreadable files are treated as empty and write
// failures are logged by the store while the confirmation is still sent.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/matsen/memo/internal/host"
	"github.com/matsen/memo/internal/logging"
	"github.com/matsen/memo/internal/memo"
)

// Command names as registered with the host.
const (
	CommandAdd    = "备忘"
	CommandList   = "查询"
	CommandDelete = "删除"
)

// Usage strings returned for malformed arguments.
const (
	AddUsage    = "格式错误，用法：/备忘 <对象> <内容>"
	DeleteUsage = "格式错误，用法：/删除 <对象|序号|all>"
)

// ErrFormat is wrapped by every *FormatError.
var ErrFormat = errors.New("malformed command arguments")

// FormatError reports command arguments that do not match the usage.
type FormatError struct {
	Usage string
}

func (e *FormatError) Error() string { return e.Usage }

func (e *FormatError) Unwrap() error { return ErrFormat }

// ParseAddArgs splits a combined add argument into target and content.
// The target is the first whitespace-delimited token and the content is
// the remainder with its inner whitespace preserved.
func ParseAddArgs(arg string) (target, content string, err error) {
	arg = strings.TrimSpace(arg)
	i := strings.IndexFunc(arg, unicode.IsSpace)
	if i < 0 {
		return "", "", &FormatError{Usage: AddUsage}
	}
	target = arg[:i]
	content = strings.TrimLeftFunc(arg[i:], unicode.IsSpace)
	if target == "" || content == "" {
		return "", "", &FormatError{Usage: AddUsage}
	}
	return target, content, nil
}

// Plugin binds the memo commands to a store.
type Plugin struct {
	store  *memo.Store
	logger *slog.Logger
}

// New creates a plugin using store. A nil logger discards log output.
func New(store *memo.Store, logger *slog.Logger) *Plugin {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Plugin{store: store, logger: logger}
}

// Logger returns the logger shared with the store.
func (p *Plugin) Logger() *slog.Logger { return p.logger }

// Name identifies the plugin to the host.
func (p *Plugin) Name() string { return "memo" }

// Initialize prepares the memo file.
func (p *Plugin) Initialize(ctx context.Context) error {
	if err := p.store.Initialize(); err != nil {
		return fmt.Errorf("initializing memo store: %w", err)
	}
	p.logger.Debug("memo store ready", "path", p.store.Path())
	return nil
}

// Terminate logs the shutdown. Every mutation is already on disk.
func (p *Plugin) Terminate(ctx context.Context) error {
	p.logger.Info("备忘录插件已停用")
	return nil
}

// Commands returns the handlers to register with a host.Dispatcher.
func (p *Plugin) Commands() map[string]host.HandlerFunc {
	return map[string]host.HandlerFunc{
		CommandAdd: func(ctx context.Context, ev host.Event, args string) (host.Reply, error) {
			return host.Reply{p.AddCombined(ev.SenderID, args)}, nil
		},
		CommandList: func(ctx context.Context, ev host.Event, args string) (host.Reply, error) {
			return host.Reply{p.List(ev.SenderID)}, nil
		},
		CommandDelete: func(ctx context.Context, ev host.Event, args string) (host.Reply, error) {
			key := strings.TrimSpace(args)
			if key == "" {
				return host.Reply{DeleteUsage}, nil
			}
			return host.Reply{p.Delete(ev.SenderID, key)}, nil
		},
	}
}

// Add appends a memo for uid and returns the confirmation.
func (p *Plugin) Add(uid, target, content string) string {
	p.store.Update(func(doc memo.Document) bool {
		doc.Append(uid, memo.Record{Target: target, Content: content})
		return true
	})
	return fmt.Sprintf("已添加备忘：[%s] %s", target, content)
}

// AddCombined parses "<target> <content>" and adds the memo. Malformed
// input yields the usage string and leaves the store untouched.
func (p *Plugin) AddCombined(uid, arg string) string {
	target, content, err := ParseAddArgs(arg)
	if err != nil {
		var ferr *FormatError
		if errors.As(err, &ferr) {
			return ferr.Usage
		}
		return AddUsage
	}
	return p.Add(uid, target, content)
}

// List renders uid's memos numbered from 1 in storage order.
func (p *Plugin) List(uid string) string {
	return FormatList(p.store.Load().List(uid))
}

// FormatList renders a memo list the way List replies.
func FormatList(list []memo.Record) string {
	if len(list) == 0 {
		return "暂无备忘记录。"
	}
	lines := make([]string, len(list))
	for i, rec := range list {
		lines[i] = fmt.Sprintf("%d. [%s] %s", i+1, rec.Target, rec.Content)
	}
	return "备忘列表：\n" + strings.Join(lines, "\n")
}

// Delete removes memos selected by key and describes the result.
func (p *Plugin) Delete(uid, key string) string {
	var out memo.DeleteOutcome
	p.store.Update(func(doc memo.Document) bool {
		out = doc.Delete(uid, key)
		return out.Changed()
	})
	return FormatDelete(out)
}

// FormatDelete renders a delete outcome as a reply message.
func FormatDelete(out memo.DeleteOutcome) string {
	switch out.Mode {
	case memo.DeleteAll:
		return fmt.Sprintf("已清空全部备忘，共删除 %d 条。", len(out.Removed))
	case memo.DeleteByIndex:
		if !out.Found() {
			return fmt.Sprintf("未找到第 %s 条备忘。", out.Key)
		}
		rec := out.Removed[0]
		return fmt.Sprintf("已删除第 %d 条备忘：[%s] %s", out.Index, rec.Target, rec.Content)
	default:
		if !out.Found() {
			return fmt.Sprintf("未找到与 [%s] 相关的备忘。", out.Key)
		}
		return fmt.Sprintf("已删除 %d 条与 [%s] 相关的备忘。", len(out.Removed), out.Key)
	}
}
