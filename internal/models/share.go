// Package models holds the share data model and the remote naming contract.
package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Remote object name suffixes. These are part of the wire contract with
// existing deployments and must not change.
const (
	metadataObjectSuffix = "_metadata.json.enc"
	payloadObjectSuffix  = "_file.dat"
)

// ShareMetadata is the unit of truth for a share. All fields are immutable
// once the share is created.
//
// Timestamps are Unix-epoch milliseconds. PassCode is kept only in the
// local index and is stripped before the record is encrypted for remote
// storage; after a successful decrypt the lifecycle manager echoes the
// presented passcode back into the field for the caller's convenience.
type ShareMetadata struct {
	ShareID   string `json:"shareId"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	FileType  string `json:"fileType"`
	CreatedAt int64  `json:"createdAt"`
	ExpiresAt int64  `json:"expiresAt"`
	PassCode  string `json:"-"`
}

// IsExpired reports whether the share is past its expiry at the given
// moment. Pure function so expiry logic is testable without I/O.
func (m *ShareMetadata) IsExpired(now time.Time) bool {
	return now.UnixMilli() > m.ExpiresAt
}

// MetadataObjectPath returns the remote path of the encrypted metadata
// object for the given share id: /<shareId>_metadata.json.enc
func MetadataObjectPath(shareID string) string {
	return "/" + shareID + metadataObjectSuffix
}

// PayloadObjectPath returns the remote path of the raw payload object for
// the given share id: /<shareId>_file.dat
func PayloadObjectPath(shareID string) string {
	return "/" + shareID + payloadObjectSuffix
}

// ShareLink builds the recipient link for a share:
// <baseURL>/share/<shareId>?code=<urlEncodedPassCode>
//
// Embedding the passcode in the query string is a deliberate convenience
// trade-off: one-click links at the cost of the passcode appearing in
// transit metadata and browser history.
func ShareLink(baseURL, shareID, passCode string) string {
	return fmt.Sprintf("%s/share/%s?code=%s",
		strings.TrimRight(baseURL, "/"), shareID, url.QueryEscape(passCode))
}

// ParseShareLink extracts the share id and passcode from a recipient link.
// A bare share id (no scheme, no path separators) is accepted as-is with an
// empty passcode, so CLI users can paste either form.
func ParseShareLink(s string) (shareID, passCode string, err error) {
	if !strings.Contains(s, "/") && !strings.Contains(s, "?") {
		return s, "", nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", "", fmt.Errorf("parse share link: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] != "share" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("not a share link: %q", s)
	}

	return parts[len(parts)-1], u.Query().Get("code"), nil
}
