package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/weel/internal/appwatch"
	"github.com/mj1618/weel/internal/config"
	"github.com/mj1618/weel/internal/server"
	"github.com/mj1618/weel/internal/statews"
	"github.com/mj1618/weel/internal/trigger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the deck: pad trigger, app watcher, state websocket and MCP",
	Long: `Run the deck until interrupted. Each part can be switched off in the
config file or with flags:

  pad trigger        serial device sending BTN_n lines (--device)
  app watcher        polls the frontmost app for app-aware pages (--app-watch)
  state websocket    pushes state to UIs and accepts presses (--listen)
  MCP server         tools for AI agents (--transport, --port)

Examples:
  weel serve --device /dev/ttyUSB0
  weel serve --listen 127.0.0.1:8765 --transport streamable-http --port 8080
  weel serve --listen "" --app-watch=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("device", "", "Serial device of the pad (empty disables the trigger)")
	serveCmd.Flags().Bool("app-watch", true, "Poll the frontmost application")
	serveCmd.Flags().String("listen", "", "State websocket address (empty disables it)")
	serveCmd.Flags().String("transport", config.TransportNone, "MCP transport: none, stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	d := sess.deck

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Trigger.Enabled {
		g.Go(func() error {
			press := func(index int) {
				res, err := d.Press(ctx, index)
				if err != nil {
					logger.Warn("pad press", "index", index, "error", err)
					return
				}
				logger.Info("pad press", "index", index, "success", res.Success, "message", res.Message)
			}
			return trigger.Run(ctx, trigger.SerialOpener(cfg.Trigger.Device, cfg.Trigger.Baud), 2*time.Second, press, logger)
		})
	}

	if cfg.AppWatch.Enabled {
		if sess.provider.WindowManager == nil {
			logger.Warn("app watcher disabled: frontmost app is unavailable on this platform")
		} else {
			w := appwatch.New(sess.provider.WindowManager, d, time.Duration(cfg.AppWatch.IntervalMS)*time.Millisecond, logger)
			g.Go(func() error { return w.Run(ctx) })
		}
	}

	if cfg.StateWS.Enabled {
		ws := statews.NewServer(d, logger, statews.HubConfig{})
		g.Go(func() error { return ws.Run(ctx, cfg.StateWS.Listen, cfg.StateWS.Path) })
	}

	if cfg.MCP.Transport != config.TransportNone {
		srv := server.New(d, logger)
		g.Go(func() error { return srv.Serve(ctx, cfg.MCP.Transport, cfg.MCP.Port) })
	}

	logger.Info("deck running", "profile", d.State().ProfileName, "data_dir", cfg.DataDir)
	g.Go(func() error {
		<-ctx.Done()
		return nil
	})
	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
