package accumulations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/KirkDiggler/state-accumulation/internal/accumulation"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const indexKey = "accumulation:characters"

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed accumulation repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	return &redisRepo{
		client: cfg.Client,
	}
}

// key generates the Redis key for a character's record
func (r *redisRepo) key(characterID string) string {
	return fmt.Sprintf("accumulation:character:%s", characterID)
}

// Save stores one record and indexes it
func (r *redisRepo) Save(ctx context.Context, record *accumulation.Record) error {
	if err := validate(record); err != nil {
		return err
	}

	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal accumulation record: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(record.CharacterID), string(jsonData), 0)
	pipe.SAdd(ctx, indexKey, record.CharacterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save accumulation record: %w", err)
	}

	return nil
}

// Get retrieves a record and rehydrates maps absent from older saves
func (r *redisRepo) Get(ctx context.Context, characterID string) (*accumulation.Record, error) {
	if characterID == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(characterID)).Bytes()
	if err == redis.Nil {
		return nil, notFound(characterID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get accumulation record: %w", err)
	}

	var record accumulation.Record
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accumulation record: %w", err)
	}
	if record.CharacterID == "" {
		record.CharacterID = characterID
	}
	record.Rehydrate()

	return &record, nil
}

// List returns the indexed character IDs
func (r *redisRepo) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list accumulation records: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// SaveAll rewrites the index and every record in one pipeline. Records of
// characters missing from the snapshot are deleted.
func (r *redisRepo) SaveAll(ctx context.Context, records []*accumulation.Record) error {
	payloads := make(map[string]string, len(records))
	ids := make([]any, 0, len(records))
	for _, rec := range records {
		if err := validate(rec); err != nil {
			return err
		}
		jsonData, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal accumulation record %s: %w", rec.CharacterID, err)
		}
		if _, dup := payloads[rec.CharacterID]; !dup {
			ids = append(ids, rec.CharacterID)
		}
		payloads[rec.CharacterID] = string(jsonData)
	}

	previous, err := r.List(ctx)
	if err != nil {
		return err
	}
	var staleKeys []string
	for _, id := range previous {
		if _, kept := payloads[id]; !kept {
			staleKeys = append(staleKeys, r.key(id))
		}
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, indexKey)
	if len(staleKeys) > 0 {
		pipe.Del(ctx, staleKeys...)
	}
	for _, id := range ids {
		characterID := id.(string)
		pipe.Set(ctx, r.key(characterID), payloads[characterID], 0)
	}
	if len(ids) > 0 {
		pipe.SAdd(ctx, indexKey, ids...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save accumulation records: %w", err)
	}

	log.Printf("[REDIS] Saved %d accumulation records, pruned %d", len(ids), len(staleKeys))
	return nil
}

// LoadAll fetches every indexed record concurrently. Index entries whose
// record is gone are skipped.
func (r *redisRepo) LoadAll(ctx context.Context) ([]*accumulation.Record, error) {
	ids, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*accumulation.Record, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id // per-iteration copies for goroutines (go < 1.22 loop semantics)
		g.Go(func() error {
			rec, err := r.Get(ctx, id)
			if dnderr.IsNotFound(err) {
				log.Printf("[REDIS] Skipping stale accumulation index entry %s", id)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to load accumulation record %s: %w", id, err)
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := records[:0]
	for _, rec := range records {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Delete removes a record and its index entry
func (r *redisRepo) Delete(ctx context.Context, characterID string) error {
	if characterID == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, r.key(characterID))
	pipe.SRem(ctx, indexKey, characterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete accumulation record: %w", err)
	}
	if del.Val() == 0 {
		return notFound(characterID)
	}

	return nil
}
