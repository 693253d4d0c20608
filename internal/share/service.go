// Package share implements the share lifecycle: create, fetch-and-verify,
// download, delete and cleanup of passcode-protected remote shares, plus
// the local-index bookkeeping for shares this instance created.
package share

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okorolev/cipherdrop/internal/blobstore"
	"github.com/okorolev/cipherdrop/internal/common"
	"github.com/okorolev/cipherdrop/internal/cryptox"
	"github.com/okorolev/cipherdrop/internal/index"
	"github.com/okorolev/cipherdrop/internal/logging"
	"github.com/okorolev/cipherdrop/internal/models"
)

const (
	// shareIDBytes of randomness encode to a 20-character base64url id.
	shareIDBytes = 15

	// passCodeLength characters from the 36-symbol alphabet give ~31 bits
	// of entropy. Kept short so recipients can type it from a phone call.
	passCodeLength = 6
)

// CreateRequest describes a new share.
type CreateRequest struct {
	FileName string
	FileType string
	Data     []byte
	TTL      time.Duration

	// PassCode is optional; when empty a passcode is generated.
	PassCode string

	// Progress, when set, receives fractional upload progress for the
	// payload object.
	Progress blobstore.ProgressFunc
}

// CreateResult is what the caller needs to hand to a recipient.
type CreateResult struct {
	ShareID  string
	PassCode string
	ShareURL string
}

// Manager orchestrates the share state machine over a blob store and the
// local index. It owns both the remote object pair and the index entry of
// every share it creates; no other component mutates them.
type Manager struct {
	store   blobstore.Store
	repo    index.Repository
	log     logging.Logger
	baseURL string

	now func() time.Time
}

// NewManager wires a Manager. baseURL is the public prefix used in share
// links, e.g. "https://drop.example.com".
func NewManager(store blobstore.Store, repo index.Repository, log logging.Logger, baseURL string) *Manager {
	return &Manager{
		store:   store,
		repo:    repo,
		log:     log,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Create encrypts and uploads a new share, then records it locally.
//
// Upload order is metadata first, payload second, so a reader that can
// fetch metadata may rely on the payload being present or imminent. If the
// payload upload fails (including caller cancellation), both remote objects
// are best-effort deleted before the error is returned. The local index is
// written only after full remote success, so cancellation never leaves a
// partially written index entry.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if req.TTL <= 0 {
		return nil, fmt.Errorf("ttl must be positive, got %v", req.TTL)
	}

	shareID, err := common.MakeURLSafeToken(shareIDBytes)
	if err != nil {
		return nil, fmt.Errorf("generate share id: %w", err)
	}

	passCode := req.PassCode
	if passCode == "" {
		if passCode, err = common.MakePassCode(passCodeLength); err != nil {
			return nil, fmt.Errorf("generate passcode: %w", err)
		}
	}

	key, err := cryptox.DeriveKey(passCode)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	now := m.now()
	meta := &models.ShareMetadata{
		ShareID:   shareID,
		FileName:  req.FileName,
		FileSize:  int64(len(req.Data)),
		FileType:  req.FileType,
		CreatedAt: now.UnixMilli(),
		ExpiresAt: now.Add(req.TTL).UnixMilli(),
		PassCode:  passCode,
	}

	blob, err := cryptox.EncryptJSON(meta, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt metadata: %w", err)
	}

	if err := m.store.Put(ctx, models.MetadataObjectPath(shareID), blob, nil); err != nil {
		return nil, fmt.Errorf("upload metadata: %w", err)
	}

	if err := m.store.Put(ctx, models.PayloadObjectPath(shareID), req.Data, req.Progress); err != nil {
		// The metadata object is already visible remotely; tear the
		// half-written share down before surfacing the error. The
		// caller's context may already be cancelled, so the rollback
		// runs detached from it.
		m.compensate(context.WithoutCancel(ctx), shareID)
		return nil, fmt.Errorf("upload payload: %w", err)
	}

	if err := m.repo.Insert(ctx, meta); err != nil {
		// Remote pair stays in place: it is reachable with the returned
		// credentials and self-expires regardless.
		return nil, fmt.Errorf("record share locally: %w", err)
	}

	m.log.Info(ctx, "share created",
		"share_id", shareID, "file_name", req.FileName, "expires_at", meta.ExpiresAt)

	return &CreateResult{
		ShareID:  shareID,
		PassCode: passCode,
		ShareURL: models.ShareLink(m.baseURL, shareID, passCode),
	}, nil
}

// compensate best-effort deletes both remote objects of a failed create.
func (m *Manager) compensate(ctx context.Context, shareID string) {
	for _, p := range []string{models.MetadataObjectPath(shareID), models.PayloadObjectPath(shareID)} {
		if err := m.store.Delete(ctx, p); err != nil {
			m.log.Warn(ctx, "compensating delete failed", "path", p, "error", err)
		}
	}
}

// Fetch downloads and decrypts the metadata of a share.
//
// A missing metadata object maps to ErrShareNotFound. A decryption failure
// maps to ErrInvalidCredential without distinguishing a wrong passcode from
// a corrupted object. An expired share is torn down best-effort and
// reported as ErrShareExpired; it is never fetchable past expiry even if
// the teardown fails. The presented passcode is echoed into the returned
// metadata.
func (m *Manager) Fetch(ctx context.Context, shareID, passCode string) (*models.ShareMetadata, error) {
	key, err := cryptox.DeriveKey(passCode)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	blob, err := m.store.Get(ctx, models.MetadataObjectPath(shareID), nil)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", common.ErrShareNotFound, shareID)
		}
		// Transport errors propagate unchanged; retry policy is not ours.
		return nil, err
	}

	var meta models.ShareMetadata
	if err := cryptox.DecryptJSON(blob, key, &meta); err != nil {
		return nil, fmt.Errorf("%w: share %s", common.ErrInvalidCredential, shareID)
	}
	meta.PassCode = passCode

	if meta.IsExpired(m.now()) {
		m.log.Info(ctx, "share expired, removing", "share_id", shareID)
		if err := m.Delete(ctx, shareID); err != nil {
			m.log.Warn(ctx, "expired share cleanup failed", "share_id", shareID, "error", err)
		}
		return nil, fmt.Errorf("%w: %s", common.ErrShareExpired, shareID)
	}

	return &meta, nil
}

// Download fetches and verifies share metadata, then streams the payload
// with progress reporting. A payload object deleted between the metadata
// fetch and the payload read surfaces as an ordinary download failure.
func (m *Manager) Download(ctx context.Context, shareID, passCode string, progress blobstore.ProgressFunc) ([]byte, *models.ShareMetadata, error) {
	meta, err := m.Fetch(ctx, shareID, passCode)
	if err != nil {
		return nil, nil, err
	}

	data, err := m.store.Get(ctx, models.PayloadObjectPath(shareID), progress)
	if err != nil {
		return nil, nil, fmt.Errorf("download payload: %w", err)
	}

	return data, meta, nil
}

// Delete tears a share down: best-effort delete of both remote objects,
// then removal of the local index entry if present. Partial remote failure
// is logged, never surfaced; the share is being torn down regardless of
// transient network state. Idempotent.
func (m *Manager) Delete(ctx context.Context, shareID string) error {
	for _, p := range []string{models.MetadataObjectPath(shareID), models.PayloadObjectPath(shareID)} {
		if err := m.store.Delete(ctx, p); err != nil {
			m.log.Warn(ctx, "remote delete failed", "path", p, "error", err)
		}
	}

	if err := m.repo.DeleteByID(ctx, shareID); err != nil {
		return err
	}

	m.log.Info(ctx, "share deleted", "share_id", shareID)
	return nil
}

// List returns every locally known share, most recently created first.
// Purely local; the remote store is never touched.
func (m *Manager) List(ctx context.Context) ([]models.ShareMetadata, error) {
	return m.repo.GetAll(ctx)
}

// Cleanup sweeps the local index and deletes every expired share, returning
// how many entries were removed. Individual failures are logged and
// skipped; the sweep is advisory housekeeping. Expiry itself is enforced
// at Fetch time, not here.
func (m *Manager) Cleanup(ctx context.Context) (int, error) {
	entries, err := m.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	now := m.now()
	removed := 0
	for _, e := range entries {
		if !e.IsExpired(now) {
			continue
		}
		if err := m.Delete(ctx, e.ShareID); err != nil {
			m.log.Warn(ctx, "cleanup: delete failed", "share_id", e.ShareID, "error", err)
			continue
		}
		removed++
	}

	m.log.Info(ctx, "cleanup sweep finished", "removed", removed, "total", len(entries))
	return removed, nil
}
