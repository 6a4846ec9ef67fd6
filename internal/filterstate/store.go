// Package filterstate persists each view's filter selections as a JSON blob
// under a namespaced key. Storage failures are logged and swallowed: losing
// a saved filter must never block an interaction.
package filterstate

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/rohan/tender-scout/internal/models"
)

// ErrNotFound is returned by Storage implementations when no value exists
// for a key.
var ErrNotFound = errors.New("filterstate: key not found")

// Storage is a key/value string store. Implementations: Postgres-backed
// (internal/db) and in-memory (tests).
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type Store struct {
	storage Storage
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

func storageKey(namespace string) string {
	return "filters-" + namespace
}

// Save serializes the filter state under the namespace's key. Failures are
// logged, never returned.
func (s *Store) Save(ctx context.Context, namespace string, state models.FilterState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("[filterstate] marshal for %q failed: %v", namespace, err)
		return
	}
	if err := s.storage.Set(ctx, storageKey(namespace), string(payload)); err != nil {
		log.Printf("[filterstate] save for %q failed: %v", namespace, err)
	}
}

// Load restores the filter state for a namespace. Absent or unparseable
// blobs return nil (logged, never an error): the caller falls back to
// defaults. Fields missing from an older stored blob are defaulted one
// field at a time via WithDefaults, so partial staleness does not blank out
// unrelated selections.
func (s *Store) Load(ctx context.Context, namespace string) *models.FilterState {
	raw, err := s.storage.Get(ctx, storageKey(namespace))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[filterstate] load for %q failed: %v", namespace, err)
		}
		return nil
	}

	var state models.FilterState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("[filterstate] corrupt blob for %q: %v", namespace, err)
		return nil
	}

	// An absent boolean unmarshals to false, which for paginate is
	// indistinguishable from a stored false. Probe the raw keys so a blob
	// from an older schema gets the default (true) instead of silently
	// turning pagination off.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &keys); err == nil {
		if _, ok := keys["paginate"]; !ok {
			state.Paginate = models.DefaultFilterState().Paginate
		}
	}

	state = state.WithDefaults()
	return &state
}
