package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/matsen/memo/internal/host"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run memo commands from stdin through the bot host",
	Long: `Read chat messages from stdin, one per line, and dispatch them as the
current user. Replies are printed as plain text.

Example session:
  /备忘 牙医 周三复诊
  已添加备忘：[牙医] 周三复诊
  /查询
  备忘列表：
  1. [牙医] 周三复诊

Stops at end of input or on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	uid := mustResolveUser(cfg)
	p, _ := mustOpenPlugin(cfg)

	logger := p.Logger()
	h := host.New(host.Options{
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
		Logger:    logger,
	})
	if err := h.Install(p); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := h.Start(ctx); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	loopErr := chatLoop(ctx, h, uid, os.Stdin, os.Stdout, os.Stderr)
	if err := h.Stop(context.Background()); err != nil {
		logger.Error("stopping host", "error", err)
	}
	if loopErr != nil {
		exitWithError(ExitError, "reading input: %v", loopErr)
	}
	return nil
}

// chatLoop dispatches each input line as a message from uid until input
// ends or ctx is cancelled.
func chatLoop(ctx context.Context, h *host.Host, uid string, in io.Reader, out, errOut io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
		}

		reply, err := h.Dispatch(ctx, host.Event{SenderID: uid, Text: line})
		if err != nil {
			if errors.Is(err, host.ErrUnknownCommand) {
				fmt.Fprintf(errOut, "error: %v\n", err)
				continue
			}
			return err
		}
		for _, msg := range reply {
			fmt.Fprintln(out, msg)
		}
	}
}
