package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okorolev/cipherdrop/internal/blobstore"
	"github.com/okorolev/cipherdrop/internal/config"
	"github.com/okorolev/cipherdrop/internal/index"
	"github.com/okorolev/cipherdrop/internal/logging"
	"github.com/okorolev/cipherdrop/internal/share"

	_ "modernc.org/sqlite"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, index.RunMigrations(context.Background(), db))

	cfg := &config.Config{}
	cfg.LoadDefaults()

	log := logging.NewDefault(io.Discard, slog.LevelError)
	out := &bytes.Buffer{}

	return &App{
		config:  cfg,
		manager: share.NewManager(blobstore.NewMemStore(), index.NewSQLiteRepository(db), log, cfg.PublicBaseURL),
		log:     log,
		out:     out,
		db:      db,
	}, out
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		cmd  string
		rest []string
	}{
		{
			name: "plain",
			args: []string{"list"},
			cmd:  "list",
			rest: []string{},
		},
		{
			name: "after global flags",
			args: []string{"-e", "https://dav", "-t", "1h", "create", "file.txt"},
			cmd:  "create",
			rest: []string{"file.txt"},
		},
		{
			name: "equals-form flag",
			args: []string{"--config=x.json", "cleanup"},
			cmd:  "cleanup",
			rest: []string{},
		},
		{
			name: "no command",
			args: []string{"-e", "https://dav"},
			cmd:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, rest := splitCommand(tt.args)
			assert.Equal(t, tt.cmd, cmd)
			if tt.rest != nil {
				assert.Equal(t, tt.rest, rest)
			}
		})
	}
}

func TestCreateFetchDownloadFlow(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	path := writeTempFile(t, "hello.txt", "hello, world")
	require.NoError(t, app.Run(ctx, []string{"create", "-p", "ab12cd", path}))

	output := out.String()
	assert.Contains(t, output, "Passcode: ab12cd")
	assert.Contains(t, output, "code=ab12cd")

	m := regexp.MustCompile(`Share ID: (\S+)`).FindStringSubmatch(output)
	require.Len(t, m, 2)
	shareID := m[1]

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"fetch", shareID, "-p", "ab12cd"}))
	assert.Contains(t, out.String(), "Name:    hello.txt")
	assert.Contains(t, out.String(), "Size:    12 bytes")

	target := filepath.Join(t.TempDir(), "out.txt")
	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"download", shareID, "-p", "ab12cd", "-o", target}))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello, world", string(data))
}

func TestFetchFlagOrder(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	path := writeTempFile(t, "a.txt", "x")
	require.NoError(t, app.Run(ctx, []string{"create", "-p", "ab12cd", path}))

	m := regexp.MustCompile(`Share ID: (\S+)`).FindStringSubmatch(out.String())
	require.Len(t, m, 2)
	shareID := m[1]

	// target before flags, as the help text shows
	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"fetch", shareID, "-p", "ab12cd"}))
	assert.Contains(t, out.String(), "Name:    a.txt")

	// flags-first still accepted
	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"fetch", "-p", "ab12cd", shareID}))
	assert.Contains(t, out.String(), "Name:    a.txt")

	err := app.Run(ctx, []string{"fetch", shareID, "-p", "ab12cd", "extra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: fetch")

	err = app.Run(ctx, []string{"fetch"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: fetch")
}

func TestFetchByLink(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	path := writeTempFile(t, "a.txt", "x")
	require.NoError(t, app.Run(ctx, []string{"create", "-p", "zz99yy", path}))

	m := regexp.MustCompile(`Link:\s+(\S+)`).FindStringSubmatch(out.String())
	require.Len(t, m, 2)

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"fetch", m[1]}))
	assert.Contains(t, out.String(), "Name:    a.txt")
}

func TestNoteShare(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"note", "-p", "ab12cd", "remember", "the", "milk"}))

	m := regexp.MustCompile(`Share ID: (\S+)`).FindStringSubmatch(out.String())
	require.Len(t, m, 2)

	target := filepath.Join(t.TempDir(), "note.txt")
	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"download", m[1], "-p", "ab12cd", "-o", target}))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", string(data))
}

func TestListAndCleanup(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	path := writeTempFile(t, "a.txt", "x")
	require.NoError(t, app.Run(ctx, []string{"create", "-p", "ab12cd", "-ttl", "1ms", path}))
	require.NoError(t, app.Run(ctx, []string{"create", "-p", "ab12cd", path}))

	time.Sleep(5 * time.Millisecond)

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"list"}))
	assert.Contains(t, out.String(), "expired")
	assert.Contains(t, out.String(), "active")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"cleanup"}))
	assert.Contains(t, out.String(), "Removed 1 expired share(s)")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"list"}))
	assert.NotContains(t, out.String(), "expired")
}

func TestDeleteCommand(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	path := writeTempFile(t, "a.txt", "x")
	require.NoError(t, app.Run(ctx, []string{"create", "-p", "ab12cd", path}))

	m := regexp.MustCompile(`Share ID: (\S+)`).FindStringSubmatch(out.String())
	require.Len(t, m, 2)

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"delete", m[1]}))
	assert.Contains(t, out.String(), "Deleted")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"list"}))
	assert.Contains(t, out.String(), "No shares.")
}

func TestUnknownCommand(t *testing.T) {
	app, _ := newTestApp(t)
	err := app.Run(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
}

func TestHelpOnNoArgs(t *testing.T) {
	app, out := newTestApp(t)
	require.NoError(t, app.Run(context.Background(), nil))
	assert.Contains(t, out.String(), "Usage:")
}
