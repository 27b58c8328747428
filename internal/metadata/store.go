// Package metadata is the non-authoritative display store: titles and names
// keyed by ledger-issued identifiers. It is joined into ledger reads for
// presentation and is never consulted for an authorization or cryptographic
// decision. Reads tolerate absence; writes after a committed ledger write are
// best-effort.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Placeholders used when the display side is missing or unreachable.
const (
	UntitledAssignment = "Untitled assignment"
	UnnamedModule      = "Unnamed module"
)

// AssignmentMeta is the display record stored under an assignment id.
type AssignmentMeta struct {
	AssignmentID uint      `json:"assignmentId"`
	ModuleID     uint      `json:"moduleId"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ModuleMeta is the display record stored under a module id.
type ModuleMeta struct {
	ModuleID    uint   `json:"moduleId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PrincipalMeta is the display record stored under a principal address.
type PrincipalMeta struct {
	Principal string `json:"principal"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// Store reads and writes display metadata in Redis.
type Store struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewStore builds the metadata store on an open Redis client.
func NewStore(client *redis.Client, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.With().Str("component", "metadata").Logger(),
	}
}

func assignmentKey(id uint) string  { return fmt.Sprintf("meta:assignment:%d", id) }
func moduleKey(id uint) string      { return fmt.Sprintf("meta:module:%d", id) }
func principalKey(addr string) string { return "meta:principal:" + addr }

// PutAssignment upserts the assignment title record.
func (s *Store) PutAssignment(ctx context.Context, meta AssignmentMeta) error {
	return s.put(ctx, assignmentKey(meta.AssignmentID), meta)
}

// GetAssignmentTitle returns the stored title or the placeholder when the
// record is absent or the store is unreachable.
func (s *Store) GetAssignmentTitle(ctx context.Context, assignmentID uint) string {
	var meta AssignmentMeta
	if !s.get(ctx, assignmentKey(assignmentID), &meta) || meta.Title == "" {
		return UntitledAssignment
	}

	return meta.Title
}

// PutModule upserts the module display record.
func (s *Store) PutModule(ctx context.Context, meta ModuleMeta) error {
	return s.put(ctx, moduleKey(meta.ModuleID), meta)
}

// GetModuleName returns the stored module name or the placeholder.
func (s *Store) GetModuleName(ctx context.Context, moduleID uint) string {
	var meta ModuleMeta
	if !s.get(ctx, moduleKey(moduleID), &meta) || meta.Name == "" {
		return UnnamedModule
	}

	return meta.Name
}

// PutPrincipal upserts the display record for a principal address.
func (s *Store) PutPrincipal(ctx context.Context, meta PrincipalMeta) error {
	return s.put(ctx, principalKey(meta.Principal), meta)
}

// GetPrincipalName returns the stored display name or the address itself as
// the placeholder.
func (s *Store) GetPrincipalName(ctx context.Context, principal string) string {
	var meta PrincipalMeta
	if !s.get(ctx, principalKey(principal), &meta) || meta.Name == "" {
		return principal
	}

	return meta.Name
}

func (s *Store) put(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store metadata: %w", err)
	}

	return nil
}

// get returns false on miss, decode failure, or store error; failures are
// logged but never propagate, the caller falls back to a placeholder.
func (s *Store) get(ctx context.Context, key string, out interface{}) bool {
	payload, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("metadata read failed")
		return false
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("metadata record is malformed")
		return false
	}

	return true
}
