package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// WebDAVStore talks to a WebDAV-style remote over plain HTTP verbs:
// PUT to write, GET to read, DELETE to remove. Only the flat key-value
// subset of the protocol is used; collections are never created here.
type WebDAVStore struct {
	endpoint string
	username string
	password string
	client   *http.Client
}

// NewWebDAVStore returns a store for the given endpoint with basic-auth
// credentials. An empty endpoint produces a store that fails fast with
// ErrNotConfigured on every call.
func NewWebDAVStore(endpoint, username, password string) *WebDAVStore {
	return &WebDAVStore{
		endpoint: strings.TrimRight(endpoint, "/"),
		username: username,
		password: password,
		client:   &http.Client{},
	}
}

func (s *WebDAVStore) configured() error {
	if s.endpoint == "" {
		return ErrNotConfigured
	}
	return nil
}

func (s *WebDAVStore) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	return req, nil
}

// Put uploads data to path, overwriting any existing object.
func (s *WebDAVStore) Put(ctx context.Context, path string, data []byte, progress ProgressFunc) error {
	if err := s.configured(); err != nil {
		return err
	}

	body := newProgressReader(bytes.NewReader(data), int64(len(data)), progress)
	req, err := s.newRequest(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = int64(len(data))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrNetwork, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusNotFound:
		// A PUT into a missing parent collection comes back as 409 (or
		// 404 on some servers).
		return fmt.Errorf("%w: put %s: %s", ErrConflict, path, resp.Status)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: put %s: %s", ErrUnavailable, path, resp.Status)
	default:
		return fmt.Errorf("%w: put %s: %s", ErrNetwork, path, resp.Status)
	}
}

// Get downloads the object at path.
func (s *WebDAVStore) Get(ctx context.Context, path string, progress ProgressFunc) ([]byte, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}

	req, err := s.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrNetwork, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: get %s: %s", ErrUnavailable, path, resp.Status)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: get %s: %s", ErrNetwork, path, resp.Status)
	}

	data, err := io.ReadAll(newProgressReader(resp.Body, resp.ContentLength, progress))
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrNetwork, path, err)
	}
	return data, nil
}

// Delete removes the object at path. An already-absent object is success.
func (s *WebDAVStore) Delete(ctx context.Context, path string) error {
	if err := s.configured(); err != nil {
		return err
	}

	req, err := s.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrNetwork, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 300 || resp.StatusCode == http.StatusNotFound:
		return nil
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: delete %s: %s", ErrUnavailable, path, resp.Status)
	default:
		return fmt.Errorf("%w: delete %s: %s", ErrNetwork, path, resp.Status)
	}
}

var _ Store = (*WebDAVStore)(nil)
