// Package profile manages the user's contact/address record. Guests keep it
// in the local store; authenticated users mirror it to the remote document
// store, which also seeds a fresh device.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crumbsugar/storefront/internal/localstore"
)

// Info is the editable contact/address record.
type Info struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	PIN     string `json:"pin"`
}

// Default returns the placeholder record a new session starts with.
func Default() Info {
	return Info{Name: "Guest"}
}

// DocumentStore is the remote mirror for authenticated users.
type DocumentStore interface {
	ReadDocument(ctx context.Context, userID string, out any) (bool, error)
	WriteDocument(ctx context.Context, userID string, value any) error
}

// Service resolves and persists the profile. An empty userID means guest.
type Service struct {
	store *localstore.Adapter
	docs  DocumentStore
	log   *slog.Logger
}

func NewService(store *localstore.Adapter, docs DocumentStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, docs: docs, log: log}
}

// Get returns the profile for the session. Authenticated users prefer the
// remote document; a remote failure falls back to the local copy so the
// profile form still renders.
func (s *Service) Get(ctx context.Context, userID string) Info {
	if userID != "" && s.docs != nil {
		var info Info
		found, err := s.docs.ReadDocument(ctx, userID, &info)
		if err != nil {
			s.log.WarnContext(ctx, "remote profile read failed, using local copy", "user_id", userID, "error", err)
		} else if found {
			return info
		}
	}

	info := Default()
	s.store.Read(ctx, localstore.KeyProfile, &info)
	return info
}

// Save persists the profile locally and, for authenticated users, mirrors
// it to the document store. The local write is the source of truth for the
// session; a failed mirror is logged, not fatal.
func (s *Service) Save(ctx context.Context, userID string, info Info) error {
	if err := s.store.Write(ctx, localstore.KeyProfile, info); err != nil {
		return fmt.Errorf("profile: save: %w", err)
	}

	if userID != "" && s.docs != nil {
		if err := s.docs.WriteDocument(ctx, userID, info); err != nil {
			s.log.WarnContext(ctx, "remote profile mirror failed", "user_id", userID, "error", err)
		}
	}
	return nil
}
