package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/painel/internal/core/board"
	"github.com/hay-kot/painel/internal/core/kv"
)

// Storage keys. They match the keys the browser dashboard used so exported
// local storage can be imported verbatim.
const (
	DocumentKey = "painel_logistica_data"
	EndpointKey = "painel_logistica_api_url"
)

// BoardStore persists the dashboard document and the remote endpoint URL
// under two fixed keys of a KV store.
type BoardStore struct {
	kv  kv.KV
	log zerolog.Logger
}

// NewBoardStore wraps store. Read failures are reported through logger.
func NewBoardStore(store kv.KV, logger zerolog.Logger) *BoardStore {
	return &BoardStore{kv: store, log: logger}
}

// LoadDocument returns the persisted document, normalized. It reports false
// when nothing usable is stored; missing, unreadable and unparsable values
// are all treated alike so the caller can fall back to board.Default.
func (s *BoardStore) LoadDocument(ctx context.Context) (board.Document, bool) {
	var raw json.RawMessage
	if err := s.kv.Get(ctx, DocumentKey, &raw); err != nil {
		if !IsNotFoundError(err) {
			s.log.Warn().Err(err).Msg("failed to read stored document")
		}
		return board.Document{}, false
	}

	doc, err := board.Decode(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("stored document is not valid JSON")
		return board.Document{}, false
	}

	return doc, true
}

// SaveDocument replaces the persisted document.
func (s *BoardStore) SaveDocument(ctx context.Context, doc board.Document) error {
	data, err := board.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.kv.Set(ctx, DocumentKey, json.RawMessage(data)); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// ClearDocument removes the persisted document. The endpoint is kept.
func (s *BoardStore) ClearDocument(ctx context.Context) error {
	if err := s.kv.Delete(ctx, DocumentKey); err != nil {
		return fmt.Errorf("clear document: %w", err)
	}
	return nil
}

// DocumentSavedAt reports when the document was last written locally.
func (s *BoardStore) DocumentSavedAt(ctx context.Context) (time.Time, bool) {
	entry, err := s.kv.GetRaw(ctx, DocumentKey)
	if err != nil {
		return time.Time{}, false
	}
	return entry.UpdatedAt, true
}

// LoadEndpoint returns the persisted endpoint URL, if any.
func (s *BoardStore) LoadEndpoint(ctx context.Context) (string, bool) {
	var url string
	if err := s.kv.Get(ctx, EndpointKey, &url); err != nil {
		if !IsNotFoundError(err) {
			s.log.Warn().Err(err).Msg("failed to read stored endpoint")
		}
		return "", false
	}
	return url, true
}

// SaveEndpoint replaces the persisted endpoint URL. An empty URL is stored
// as-is and means sync is disabled.
func (s *BoardStore) SaveEndpoint(ctx context.Context, url string) error {
	if err := s.kv.Set(ctx, EndpointKey, url); err != nil {
		return fmt.Errorf("save endpoint: %w", err)
	}
	return nil
}
