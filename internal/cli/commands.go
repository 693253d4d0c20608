package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okorolev/cipherdrop/internal/models"
	"github.com/okorolev/cipherdrop/internal/share"
)

func (a *App) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	passCode := fs.String("p", "", "explicit passcode (generated when empty)")
	ttl := fs.Duration("ttl", a.config.DefaultTTL, "share lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: create [-p passcode] [-ttl d] <file>")
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	fileType := mime.TypeByExtension(filepath.Ext(path))
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	res, err := a.manager.Create(ctx, share.CreateRequest{
		FileName: filepath.Base(path),
		FileType: fileType,
		Data:     data,
		TTL:      *ttl,
		PassCode: *passCode,
		Progress: a.printProgress("Uploading"),
	})
	if err != nil {
		return err
	}

	a.printCreateResult(res)
	return nil
}

func (a *App) note(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("note", flag.ContinueOnError)
	passCode := fs.String("p", "", "explicit passcode (generated when empty)")
	ttl := fs.Duration("ttl", a.config.DefaultTTL, "share lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: note [-p passcode] [-ttl d] <text>")
	}

	text := strings.Join(fs.Args(), " ")

	res, err := a.manager.Create(ctx, share.CreateRequest{
		FileName: "note.txt",
		FileType: "text/plain",
		Data:     []byte(text),
		TTL:      *ttl,
		PassCode: *passCode,
	})
	if err != nil {
		return err
	}

	a.printCreateResult(res)
	return nil
}

func (a *App) printCreateResult(res *share.CreateResult) {
	fmt.Fprintf(a.out, "Share ID: %s\n", res.ShareID)
	fmt.Fprintf(a.out, "Passcode: %s\n", res.PassCode)
	fmt.Fprintf(a.out, "Link:     %s\n", res.ShareURL)
}

// parseTarget parses fs for a command whose documented form puts the share
// link/id before its flags, e.g. "fetch <link|id> [-p passcode]".
// flag.FlagSet.Parse stops at the first non-flag argument, so the leading
// positional is peeled off before parsing; flags-first invocations still
// work. usage is returned verbatim when the positional count is wrong.
func parseTarget(fs *flag.FlagSet, args []string, usage string) (string, error) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		if err := fs.Parse(args[1:]); err != nil {
			return "", err
		}
		if fs.NArg() != 0 {
			return "", errors.New(usage)
		}
		return args[0], nil
	}

	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", errors.New(usage)
	}
	return fs.Arg(0), nil
}

// resolveCredentials turns a link-or-id argument plus an optional -p flag
// into a shareID/passcode pair, prompting on the terminal as a last resort.
func (a *App) resolveCredentials(arg, flagCode string) (string, string, error) {
	shareID, linkCode, err := models.ParseShareLink(arg)
	if err != nil {
		return "", "", err
	}

	passCode := flagCode
	if passCode == "" {
		passCode = linkCode
	}
	if passCode == "" {
		if passCode, err = ReadPassCode(a.out); err != nil {
			return "", "", err
		}
	}
	return shareID, passCode, nil
}

func (a *App) fetch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	flagCode := fs.String("p", "", "passcode")
	target, err := parseTarget(fs, args, "usage: fetch <link|id> [-p passcode]")
	if err != nil {
		return err
	}

	shareID, passCode, err := a.resolveCredentials(target, *flagCode)
	if err != nil {
		return err
	}

	meta, err := a.manager.Fetch(ctx, shareID, passCode)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Name:    %s\n", meta.FileName)
	fmt.Fprintf(a.out, "Size:    %d bytes\n", meta.FileSize)
	fmt.Fprintf(a.out, "Type:    %s\n", meta.FileType)
	fmt.Fprintf(a.out, "Expires: %s\n", time.UnixMilli(meta.ExpiresAt).Format(time.RFC3339))
	return nil
}

func (a *App) download(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	flagCode := fs.String("p", "", "passcode")
	outPath := fs.String("o", "", "output path (defaults to the shared file name)")
	target, err := parseTarget(fs, args, "usage: download <link|id> [-p passcode] [-o path]")
	if err != nil {
		return err
	}

	shareID, passCode, err := a.resolveCredentials(target, *flagCode)
	if err != nil {
		return err
	}

	data, meta, err := a.manager.Download(ctx, shareID, passCode, a.printProgress("Downloading"))
	if err != nil {
		return err
	}

	outFile := *outPath
	if outFile == "" {
		outFile = filepath.Base(meta.FileName)
	}
	if err := os.WriteFile(outFile, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}

	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", outFile, len(data))
	return nil
}

func (a *App) deleteShare(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	if err := a.manager.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", args[0])
	return nil
}

func (a *App) list(ctx context.Context) error {
	shares, err := a.manager.List(ctx)
	if err != nil {
		return err
	}
	if len(shares) == 0 {
		fmt.Fprintln(a.out, "No shares.")
		return nil
	}

	now := time.Now()
	for _, s := range shares {
		state := "active"
		if s.IsExpired(now) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "%s  %-8s %10d  %s  %s\n",
			s.ShareID, state, s.FileSize,
			time.UnixMilli(s.ExpiresAt).Format(time.RFC3339), s.FileName)
	}
	return nil
}

func (a *App) cleanup(ctx context.Context) error {
	removed, err := a.manager.Cleanup(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %d expired share(s)\n", removed)
	return nil
}

// printProgress renders fractional progress as a single rewritten line.
func (a *App) printProgress(verb string) func(float64) {
	return func(f float64) {
		fmt.Fprintf(a.out, "\r%s... %3.0f%%", verb, f*100)
		if f >= 1 {
			fmt.Fprintln(a.out)
		}
	}
}
