package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	actx "go.hackfix.me/purr/app/context"
	"go.hackfix.me/purr/web/server"
	stypes "go.hackfix.me/purr/web/server/types"
)

// Serve starts the web server.
type Serve struct {
	Address string `arg:"" optional:"" help:"[host]:port to listen on."`
	//nolint:lll // Long struct tags are unavoidable.
	ErrorLevel   string        `help:"Detail level of server error messages returned to clients. This doesn't affect response status codes, or client error messages. Valid values: none, minimal, full \n none: hide all error messages; minimal: replace error messages with the status text; full: keep error messages intact"`
	ReadTimeout  time.Duration `type:"xduration" help:"Maximum duration for reading an entire request."`
	WriteTimeout time.Duration `type:"xduration" help:"Maximum duration before timing out writes of a response."`
}

// Run the serve command.
func (c *Serve) Run(appCtx *actx.Context) error {
	errLvl := stypes.ErrorLevelFull
	if c.ErrorLevel != "" {
		var err error
		if errLvl, err = stypes.ErrorLevelFromString(c.ErrorLevel); err != nil {
			return err
		}
	}

	srv, err := server.New(appCtx, server.Options{
		Address:      c.Address,
		ErrorLevel:   errLvl,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	})
	if err != nil {
		return err
	}

	// Gracefully shutdown the server if a process signal is received, or the
	// main context is done.
	// See https://dev.to/mokiat/proper-http-shutdown-in-go-3fji
	srvDone := make(chan error, 1)
	go func() {
		srvErr := srv.ListenAndServe()
		appCtx.Logger.Debug("web server shutdown")
		srvDone <- srvErr
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		appCtx.Logger.Debug("process received signal", "signal", s)
	case <-appCtx.Ctx.Done():
		appCtx.Logger.Debug("app context is done")
	case srvErr := <-srvDone:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return fmt.Errorf("web server error: %w", srvErr)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(appCtx.Ctx), 10*time.Second)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed shutting down web server: %w", err)
	}

	return nil
}
