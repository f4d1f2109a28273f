package server

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/san-kum/rigid2d/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(config.ServerConfig{}, nil, nil)
	assert.ErrorIs(t, err, ErrNoScene)

	bad := config.DefaultScene()
	bad.Dt = 0
	_, err = New(config.ServerConfig{}, bad, nil)
	assert.ErrorIs(t, err, config.ErrInvalidScene)
}

func TestServeShutdown(t *testing.T) {
	key := filepath.Join(t.TempDir(), "host_ed25519")
	s, err := New(config.ServerConfig{Addr: "127.0.0.1:0", HostKeyPath: key, MaxBodies: 10}, config.GetPreset("drop"), nil)
	require.NoError(t, err)

	_, err = os.Stat(key)
	assert.NoError(t, err, "host key is generated on first use")

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(l) }()

	// The version banner proves the accept loop is running.
	conn, err := net.DialTimeout("tcp", l.Addr().String(), time.Second)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	banner, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(banner, "SSH-2.0-"), banner)
	require.NoError(t, conn.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
	assert.Equal(t, 0, s.Sessions())
}

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		w, h       int
		cols, rows int
	}{
		{120, 40, 74, 38},
		{50, 5, minCols, minRows},
		{0, 0, minCols, minRows},
	}
	for _, tt := range tests {
		cols, rows := CanvasSize(tt.w, tt.h)
		assert.Equal(t, tt.cols, cols)
		assert.Equal(t, tt.rows, rows)
	}
}
