// Package cli implements the CipherDrop command-line application: a thin
// subcommand layer over the share lifecycle manager.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/okorolev/cipherdrop/internal/blobstore"
	"github.com/okorolev/cipherdrop/internal/config"
	"github.com/okorolev/cipherdrop/internal/index"
	"github.com/okorolev/cipherdrop/internal/logging"
	"github.com/okorolev/cipherdrop/internal/share"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	manager *share.Manager
	log     logging.Logger
	out     io.Writer
	db      *sql.DB
}

// NewApp opens the local index, picks the configured blob store backend and
// wires the share manager.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, out io.Writer) (*App, error) {
	db, repo, err := index.InitDatabase(ctx, cfg.IndexDSN)
	if err != nil {
		return nil, fmt.Errorf("init local index: %w", err)
	}

	clientID, err := index.EnsureClientID(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure client id: %w", err)
	}
	log = log.With("client_id", clientID)

	store, err := newStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:  cfg,
		manager: share.NewManager(store, repo, log, cfg.PublicBaseURL),
		log:     log,
		out:     out,
		db:      db,
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	switch cfg.Backend {
	case config.BackendS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
	case config.BackendWebDAV:
		return blobstore.NewWebDAVStore(cfg.WebDAVEndpoint, cfg.WebDAVUsername, cfg.WebDAVPassword), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func (a *App) Close() error {
	return a.db.Close()
}

// configValueFlags are global flags that carry a value; splitCommand skips
// them together with their values when looking for the subcommand.
var configValueFlags = map[string]struct{}{
	"-e": {}, "-u": {}, "-w": {}, "-b": {}, "-d": {}, "-t": {}, "-s": {},
	"-c": {}, "-config": {},
}

// splitCommand returns the first positional argument as the subcommand and
// everything after it as the subcommand's arguments.
func splitCommand(args []string) (string, []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if _, ok := configValueFlags[arg]; ok && !strings.Contains(arg, "=") {
				i++ // skip the flag's value
			}
			continue
		}
		return arg, args[i+1:]
	}
	return "", nil
}

// Run dispatches a single subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	cmd, rest := splitCommand(args)

	switch cmd {
	case "", "help":
		a.printHelp()
		return nil
	case "create":
		return a.create(ctx, rest)
	case "note":
		return a.note(ctx, rest)
	case "fetch":
		return a.fetch(ctx, rest)
	case "download":
		return a.download(ctx, rest)
	case "delete":
		return a.deleteShare(ctx, rest)
	case "list":
		return a.list(ctx)
	case "cleanup":
		return a.cleanup(ctx)
	default:
		a.printHelp()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, `Usage: cipherdrop [flags] <command> [args]

Commands:
  create [-p passcode] [-ttl d] <file>   upload a file and print the share link
  note   [-p passcode] [-ttl d] <text>   share a text snippet
  fetch    <link|id> [-p passcode]       show share metadata
  download <link|id> [-p passcode] [-o path]
  delete   <id>                          tear a share down
  list                                   list shares created here
  cleanup                                delete all expired local shares

Global flags: -e endpoint -u user -w password -b base-url -d index-db -t default-ttl -s backend -c config.json`)
}
