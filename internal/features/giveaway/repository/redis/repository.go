package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"cs2-giveaway-backend/internal/features/giveaway/models"
	"cs2-giveaway-backend/internal/features/giveaway/repository"
)

const (
	keyPrefixGiveaway = "giveaway:"
	keyGiveawayIndex  = "giveaways:index"
	keyActiveSet      = "giveaways:active"

	// claimTTL bounds how long a crashed sweep instance can hold a
	// processing claim before another instance may take over.
	claimTTL = time.Minute
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisGiveawayRepository(client *redis.Client) repository.GiveawayRepository {
	return &redisRepository{client: client}
}

func makeGiveawayKey(id string) string {
	return keyPrefixGiveaway + id
}

func makeParticipantsKey(id string) string {
	return makeGiveawayKey(id) + ":participants"
}

func makeProcessingKey(id string) string {
	return makeGiveawayKey(id) + ":processing"
}

// marshalRecord strips the participant list before writing: membership
// lives in its own Redis set so joins are atomic appends, not whole-array
// overwrites.
func marshalRecord(giveaway *models.Giveaway) ([]byte, error) {
	record := *giveaway
	record.Participants = nil
	data, err := json.Marshal(&record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal giveaway: %w", err)
	}
	return data, nil
}

func (r *redisRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	data, err := marshalRecord(giveaway)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, makeGiveawayKey(giveaway.ID), data, 0)
	pipe.ZAdd(ctx, keyGiveawayIndex, redis.Z{
		Score:  float64(giveaway.CreatedAt.UnixMilli()),
		Member: giveaway.ID,
	})
	pipe.SAdd(ctx, keyActiveSet, giveaway.ID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) GetByID(ctx context.Context, id string) (*models.Giveaway, error) {
	data, err := r.client.Get(ctx, makeGiveawayKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrGiveawayNotFound
	}
	if err != nil {
		return nil, err
	}

	var giveaway models.Giveaway
	if err := json.Unmarshal(data, &giveaway); err != nil {
		return nil, err
	}

	participants, err := r.GetParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	giveaway.Participants = participants

	return &giveaway, nil
}

func (r *redisRepository) List(ctx context.Context) ([]*models.Giveaway, error) {
	ids, err := r.client.ZRevRange(ctx, keyGiveawayIndex, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	giveaways := make([]*models.Giveaway, 0, len(ids))
	for _, id := range ids {
		giveaway, err := r.GetByID(ctx, id)
		if err != nil {
			if err == repository.ErrGiveawayNotFound {
				continue
			}
			return nil, fmt.Errorf("failed to get giveaway %s: %w", id, err)
		}
		giveaways = append(giveaways, giveaway)
	}

	return giveaways, nil
}

func (r *redisRepository) UpdateGuarded(ctx context.Context, giveaway *models.Giveaway, expected models.GiveawayStatus) error {
	key := makeGiveawayKey(giveaway.ID)

	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return repository.ErrGiveawayNotFound
		}
		if err != nil {
			return err
		}

		var current models.Giveaway
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
		if current.Status != expected {
			return repository.ErrStatusConflict
		}

		record, err := marshalRecord(giveaway)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, record, 0)
			r.syncStatusSet(ctx, pipe, giveaway)
			return nil
		})
		return err
	}, key)
}

// syncStatusSet keeps the active-ID set consistent with the record status.
func (r *redisRepository) syncStatusSet(ctx context.Context, pipe redis.Pipeliner, giveaway *models.Giveaway) {
	if giveaway.Status == models.GiveawayStatusActive {
		pipe.SAdd(ctx, keyActiveSet, giveaway.ID)
	} else {
		pipe.SRem(ctx, keyActiveSet, giveaway.ID)
	}
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, makeGiveawayKey(id))
	pipe.Del(ctx, makeParticipantsKey(id))
	pipe.Del(ctx, makeProcessingKey(id))
	pipe.ZRem(ctx, keyGiveawayIndex, id)
	pipe.SRem(ctx, keyActiveSet, id)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisRepository) AddParticipant(ctx context.Context, giveawayID, userID string) (bool, error) {
	added, err := r.client.SAdd(ctx, makeParticipantsKey(giveawayID), userID).Result()
	if err != nil {
		return false, err
	}
	return added > 0, nil
}

func (r *redisRepository) RemoveParticipant(ctx context.Context, giveawayID, userID string) (bool, error) {
	removed, err := r.client.SRem(ctx, makeParticipantsKey(giveawayID), userID).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (r *redisRepository) GetParticipants(ctx context.Context, giveawayID string) ([]string, error) {
	members, err := r.client.SMembers(ctx, makeParticipantsKey(giveawayID)).Result()
	if err != nil {
		return nil, err
	}
	// SMEMBERS order is unspecified; keep responses stable.
	sort.Strings(members)
	return members, nil
}

func (r *redisRepository) GetActiveIDs(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, keyActiveSet).Result()
}

func (r *redisRepository) TryClaimProcessing(ctx context.Context, id string) bool {
	return r.client.SetNX(ctx, makeProcessingKey(id), 1, claimTTL).Val()
}

func (r *redisRepository) ReleaseProcessing(ctx context.Context, id string) error {
	return r.client.Del(ctx, makeProcessingKey(id)).Err()
}
