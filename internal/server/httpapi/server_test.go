package httpapi

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/salaries/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_StopsOnContextCancel(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(lis.Addr().String(), logging.Nop{}, &fakeUsers{}, &fakeSalaries{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, lis)
	}()

	resp, err := http.Get("http://" + lis.Addr().String() + "/nowhere/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewServer("127.0.0.1:99999", logging.Nop{}, &fakeUsers{}, &fakeSalaries{})
	require.Error(t, srv.Run(context.Background()))
}

func TestRecovery(t *testing.T) {
	f := newFixture(t)
	f.users.tokens[adminToken] = nil // caller(c) yields a nil user, the handler panics on it

	rec := f.doJSON(t, http.MethodGet, "/salary/me/", adminToken, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", detailOf(t, rec))
}
