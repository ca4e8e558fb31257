package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

const (
	itemKeyPrefix   = "item:"
	itemIndexKey    = "index:items:updated_at"
	issuedKeyPrefix = "issued:"
	issuedIndexKey  = "index:issued:issued_at"
	secondsPerDay   = 24 * 60 * 60
)

// saveRecordScript writes a record hash and its index entry atomically.
// In update mode it refuses to create a record that does not exist.
var saveRecordScript = redis.NewScript(`
local key = KEYS[1]
local index = KEYS[2]
local mode = ARGV[1]
local score = ARGV[2]
local member = ARGV[3]

if mode == 'update' and redis.call('EXISTS', key) == 0 then
	return 0
end

redis.call('HSET', key, unpack(ARGV, 4))
redis.call('ZADD', index, score, member)
return 1
`)

var deleteRecordScript = redis.NewScript(`
local removed = redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[1])
return removed
`)

// RedisAdapter is a RecordStore keeping each record in a hash and the list
// order in a sorted set per collection.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) ListItems(ctx context.Context) ([]domain.Item, error) {
	fields, err := r.loadAll(ctx, itemIndexKey, itemKeyPrefix)
	if err != nil {
		return nil, redisErr("list items", err)
	}

	items := make([]domain.Item, 0, len(fields))
	for _, f := range fields {
		updated, _ := time.Parse(time.RFC3339Nano, f["updated_at"])
		items = append(items, domain.Item{
			ID:        f["id"],
			Name:      f["item"],
			Quantity:  atoiOrZero(f["quantity"]),
			Location:  f["location"],
			UpdatedAt: updated,
		})
	}
	return items, nil
}

func (r *RedisAdapter) InsertItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	item.ID = uuid.NewString()
	if _, err := r.saveItem(ctx, "insert", item); err != nil {
		return domain.Item{}, redisErr("insert item", err)
	}
	return item, nil
}

func (r *RedisAdapter) UpdateItem(ctx context.Context, item domain.Item) error {
	ok, err := r.saveItem(ctx, "update", item)
	if err != nil {
		return redisErr("update item", err)
	}
	if !ok {
		return port.NotFound("update item")
	}
	return nil
}

func (r *RedisAdapter) DeleteItem(ctx context.Context, id string) error {
	return r.delete(ctx, "delete item", itemKeyPrefix+id, itemIndexKey, id)
}

func (r *RedisAdapter) ListIssuances(ctx context.Context) ([]domain.Issuance, error) {
	fields, err := r.loadAll(ctx, issuedIndexKey, issuedKeyPrefix)
	if err != nil {
		return nil, redisErr("list issued", err)
	}

	issuances := make([]domain.Issuance, 0, len(fields))
	for _, f := range fields {
		rec := domain.Issuance{
			ID:             f["id"],
			ItemID:         f["item_id"],
			IssuedTo:       f["issued_to"],
			QuantityIssued: atoiOrZero(f["quantity_issued"]),
			ReturnQuantity: atoiOrZero(f["return_quantity"]),
		}
		rec.IssuedAt, _ = domain.ParseDate(f["issued_at"])
		if rd, err := domain.ParseDate(f["return_date"]); err == nil {
			rec.ReturnDate = &rd
		}
		issuances = append(issuances, rec)
	}
	return issuances, nil
}

func (r *RedisAdapter) InsertIssuance(ctx context.Context, rec domain.Issuance) (domain.Issuance, error) {
	rec.ID = uuid.NewString()
	if _, err := r.saveIssuance(ctx, "insert", rec); err != nil {
		return domain.Issuance{}, redisErr("insert issued", err)
	}
	return rec, nil
}

func (r *RedisAdapter) UpdateIssuance(ctx context.Context, rec domain.Issuance) error {
	ok, err := r.saveIssuance(ctx, "update", rec)
	if err != nil {
		return redisErr("update issued", err)
	}
	if !ok {
		return port.NotFound("update issued")
	}
	return nil
}

func (r *RedisAdapter) DeleteIssuance(ctx context.Context, id string) error {
	return r.delete(ctx, "delete issued", issuedKeyPrefix+id, issuedIndexKey, id)
}

func (r *RedisAdapter) saveItem(ctx context.Context, mode string, item domain.Item) (bool, error) {
	updated := item.UpdatedAt.UTC()
	args := []any{
		mode, updated.UnixMilli(), item.ID,
		"id", item.ID,
		"item", item.Name,
		"quantity", item.Quantity,
		"location", item.Location,
		"updated_at", updated.Format(time.RFC3339Nano),
	}
	result, err := saveRecordScript.Run(ctx, r.client, []string{itemKeyPrefix + item.ID, itemIndexKey}, args...).Int()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

func (r *RedisAdapter) saveIssuance(ctx context.Context, mode string, rec domain.Issuance) (bool, error) {
	returnDate := ""
	if rec.ReturnDate != nil {
		returnDate = rec.ReturnDate.String()
	}
	args := []any{
		mode, rec.IssuedAt.Time().Unix() / secondsPerDay, rec.ID,
		"id", rec.ID,
		"item_id", rec.ItemID,
		"issued_to", rec.IssuedTo,
		"issued_at", rec.IssuedAt.String(),
		"quantity_issued", rec.QuantityIssued,
		"return_quantity", rec.ReturnQuantity,
		"return_date", returnDate,
	}
	result, err := saveRecordScript.Run(ctx, r.client, []string{issuedKeyPrefix + rec.ID, issuedIndexKey}, args...).Int()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

func (r *RedisAdapter) delete(ctx context.Context, op, key, index, id string) error {
	removed, err := deleteRecordScript.Run(ctx, r.client, []string{key, index}, id).Int()
	if err != nil {
		return redisErr(op, err)
	}
	if removed == 0 {
		return port.NotFound(op)
	}
	return nil
}

// loadAll reads the index newest first and fetches every hash in one
// pipeline. Index entries whose hash is gone are skipped.
func (r *RedisAdapter) loadAll(ctx context.Context, index, prefix string) ([]map[string]string, error) {
	ids, err := r.client.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, prefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	out := make([]map[string]string, 0, len(ids))
	for _, cmd := range cmds {
		if fields := cmd.Val(); len(fields) > 0 {
			out = append(out, fields)
		}
	}
	return out, nil
}

func redisErr(op string, err error) error {
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		return &port.StoreError{Op: op, Message: replyErr.Error(), Err: err}
	}
	return classify(op, err)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
