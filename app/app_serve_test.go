package app

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppServe(t *testing.T) {
	t.Parallel()

	tctx, cancel, h := newTestContext(t, 10*time.Second)
	defer cancel()

	d, err := newTestDB(tctx)
	h(assert.NoError(t, err))
	defer d.Close()

	appCtx, stopApp := context.WithCancel(tctx)
	defer stopApp()

	app, err := newTestApp(appCtx, d)
	h(assert.NoError(t, err))

	addrCh := make(chan string)
	app.stderr.waitFor(`address=(\S+)`, 1, addrCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run("serve", "127.0.0.1:0", "--error-level", "minimal")
	}()

	var addr string
	select {
	case addr = <-addrCh:
	case err = <-errCh:
		h(assert.NoError(t, err))
		h(false)
	case <-tctx.Done():
		h(assert.Fail(t, "timed out waiting for the server to start"))
	}

	do := func(method, path, body string) (int, string) {
		var reqBody io.Reader
		if body != "" {
			reqBody = strings.NewReader(body)
		}
		req, rerr := http.NewRequestWithContext(tctx, method, "http://"+addr+path, reqBody)
		h(assert.NoError(t, rerr))
		resp, rerr := http.DefaultClient.Do(req)
		h(assert.NoError(t, rerr))
		defer resp.Body.Close()
		data, rerr := io.ReadAll(resp.Body)
		h(assert.NoError(t, rerr))
		return resp.StatusCode, string(data)
	}

	status, body := do(http.MethodPost, "/cats", `{"name": "Fluffy"}`)
	h(assert.Equal(t, http.StatusCreated, status))
	h(assert.JSONEq(t, `{"id": "1", "name": "Fluffy"}`, body))

	status, body = do(http.MethodGet, "/cats", "")
	h(assert.Equal(t, http.StatusOK, status))
	h(assert.JSONEq(t, `[{"id": "1", "name": "Fluffy"}]`, body))

	status, body = do(http.MethodGet, "/cats/2", "")
	h(assert.Equal(t, http.StatusNotFound, status))
	h(assert.JSONEq(t, `{"message": "Resource not found"}`, body))

	status, body = do(http.MethodGet, "/health", "")
	h(assert.Equal(t, http.StatusOK, status))
	h(assert.JSONEq(t, `{"status": "ok"}`, body))

	status, body = do(http.MethodGet, "/metrics", "")
	h(assert.Equal(t, http.StatusOK, status))
	h(assert.Contains(t, body, "purr_http_requests_total"))

	// Another app can manage the cats of the server without a local store.
	remote, err := newTestApp(tctx, nil)
	h(assert.NoError(t, err))

	err = remote.Run("cat", "add", "Tom", "--remote", addr)
	h(assert.NoError(t, err))
	h(assert.Equal(t, "2\n", remote.stdout.String()))

	err = remote.Run("cat", "ls", "--remote", "http://"+addr)
	h(assert.NoError(t, err))
	h(assert.Equal(t, [][]string{{"ID", "NAME"}, {"1", "Fluffy"}, {"2", "Tom"}},
		tableRows(remote.stdout.String())))

	err = remote.Run("cat", "get", "9", "--remote", addr)
	h(assert.ErrorContains(t, err, "cat with ID '9' doesn't exist"))

	stopApp()

	select {
	case err = <-errCh:
		h(assert.NoError(t, err))
	case <-tctx.Done():
		h(assert.Fail(t, "timed out waiting for the server to stop"))
	}

	stderr := app.stderr.String()
	h(assert.Contains(t, stderr, "started listener"))
	h(assert.Contains(t, stderr, "POST /cats"))
	h(assert.Contains(t, stderr, "request_id="))
}

func TestAppServeInvalidErrorLevel(t *testing.T) {
	t.Parallel()

	tctx, cancel, h := newTestContext(t, 5*time.Second)
	defer cancel()

	d, err := newTestDB(tctx)
	h(assert.NoError(t, err))
	defer d.Close()

	app, err := newTestApp(tctx, d)
	h(assert.NoError(t, err))

	err = app.Run("serve", "127.0.0.1:0", "--error-level", "verbose")
	h(assert.EqualError(t, err, "invalid error level 'verbose'"))
}
