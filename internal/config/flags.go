package config

import (
	"flag"
	"os"

	"github.com/okorolev/cipherdrop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-e string     WebDAV endpoint URL
//	-u string     WebDAV username
//	-w string     WebDAV password
//	-b string     public base URL for share links
//	-d string     local index database path
//	-t duration   default share TTL (e.g. 24h)
//	-s string     store backend: webdav or s3
//
// Note: the function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, so subcommand arguments pass through
// untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-u", "-w", "-b", "-d", "-t", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.WebDAVEndpoint, "e", cfg.WebDAVEndpoint, "WebDAV endpoint URL")
	fs.StringVar(&cfg.WebDAVUsername, "u", cfg.WebDAVUsername, "WebDAV username")
	fs.StringVar(&cfg.WebDAVPassword, "w", cfg.WebDAVPassword, "WebDAV password")
	fs.StringVar(&cfg.PublicBaseURL, "b", cfg.PublicBaseURL, "public base URL for share links")
	fs.StringVar(&cfg.IndexDSN, "d", cfg.IndexDSN, "local index database path")
	fs.DurationVar(&cfg.DefaultTTL, "t", cfg.DefaultTTL, "default share TTL")
	fs.StringVar(&cfg.Backend, "s", cfg.Backend, "store backend: webdav or s3")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
