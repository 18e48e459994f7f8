package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisPeopleKey      = "peoplesearch:people"
	redisPeopleOrderKey = "peoplesearch:people:order"
	redisImagesKey      = "peoplesearch:images"
)

// RedisDatabase keeps people and images as JSON documents in two hashes.
// Writes of a unit of work are queued and applied in one MULTI/EXEC block.
type RedisDatabase struct {
	client *redis.Client
}

// NewRedisDatabase accepts a redis:// URL, e.g. redis://localhost:6379/0.
func NewRedisDatabase(connectionString string) (DatabaseService, error) {
	opts, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisDatabase{client: redis.NewClient(opts)}, nil
}

// CreateDatabase only verifies connectivity; hashes are created on first write.
func (r *RedisDatabase) CreateDatabase(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisDatabase) DoesDatabaseExist() bool {
	return r.client.Ping(context.Background()).Err() == nil
}

func (r *RedisDatabase) Close() error {
	return r.client.Close()
}

func (r *RedisDatabase) Begin(ctx context.Context) (Transaction, error) {
	return &redisTransaction{
		ctx:           ctx,
		client:        r.client,
		pendingPeople: map[string]*Person{},
		pendingImages: map[string]*Image{},
		removed:       map[string]bool{},
	}, nil
}

func (r *RedisDatabase) GetPeople(ctx context.Context) ([]*Person, error) {
	ids, err := r.client.LRange(ctx, redisPeopleOrderKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	people := make([]*Person, 0, len(ids))
	if len(ids) == 0 {
		return people, nil
	}
	docs, err := r.client.HMGet(ctx, redisPeopleKey, ids...).Result()
	if err != nil {
		return nil, err
	}
	for i, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			// order list and hash drifted apart; the hash is authoritative
			continue
		}
		var p Person
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode person %s: %w", ids[i], err)
		}
		people = append(people, &p)
	}
	return people, nil
}

func (r *RedisDatabase) GetPersonByID(ctx context.Context, id string) (*Person, error) {
	var p Person
	found, err := redisGet(ctx, r.client, redisPeopleKey, id, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (r *RedisDatabase) GetImageByID(ctx context.Context, id string) (*Image, error) {
	var img Image
	found, err := redisGet(ctx, r.client, redisImagesKey, id, &img)
	if err != nil || !found {
		return nil, err
	}
	return &img, nil
}

func (r *RedisDatabase) CountPeople(ctx context.Context) (int, error) {
	n, err := r.client.HLen(ctx, redisPeopleKey).Result()
	return int(n), err
}

func (r *RedisDatabase) CountImages(ctx context.Context) (int, error) {
	n, err := r.client.HLen(ctx, redisImagesKey).Result()
	return int(n), err
}

func redisGet(ctx context.Context, client *redis.Client, key, id string, target any) (bool, error) {
	raw, err := client.HGet(ctx, key, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", key, id, err)
	}
	return true, nil
}

type redisTransaction struct {
	ctx    context.Context
	client *redis.Client

	ops           []func(pipe redis.Pipeliner) error
	pendingPeople map[string]*Person
	pendingImages map[string]*Image
	removed       map[string]bool // person ids
	done          bool
}

func (t *redisTransaction) GetPersonByID(ctx context.Context, id string) (*Person, error) {
	if t.removed[id] {
		return nil, nil
	}
	if p, ok := t.pendingPeople[id]; ok {
		cp := *p
		return &cp, nil
	}
	var p Person
	found, err := redisGet(ctx, t.client, redisPeopleKey, id, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (t *redisTransaction) GetImageByID(ctx context.Context, id string) (*Image, error) {
	if img, ok := t.pendingImages[id]; ok {
		cp := *img
		return &cp, nil
	}
	var img Image
	found, err := redisGet(ctx, t.client, redisImagesKey, id, &img)
	if err != nil || !found {
		return nil, err
	}
	return &img, nil
}

func (t *redisTransaction) AddPerson(ctx context.Context, person *Person) error {
	id, err := generateID()
	if err != nil {
		return err
	}
	person.ID = id
	return t.SeedPerson(ctx, person)
}

func (t *redisTransaction) SeedPerson(ctx context.Context, person *Person) error {
	existing, err := t.GetPersonByID(ctx, person.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("insert person %s: already exists", person.ID)
	}
	if err := t.queuePerson(person); err != nil {
		return err
	}
	id := person.ID
	t.ops = append(t.ops, func(pipe redis.Pipeliner) error {
		return pipe.RPush(t.ctx, redisPeopleOrderKey, id).Err()
	})
	return nil
}

func (t *redisTransaction) UpdatePerson(ctx context.Context, person *Person) error {
	existing, err := t.GetPersonByID(ctx, person.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("person %s: %w", person.ID, ErrNotFound)
	}
	return t.queuePerson(person)
}

func (t *redisTransaction) queuePerson(person *Person) error {
	doc, err := json.Marshal(person)
	if err != nil {
		return fmt.Errorf("encode person %s: %w", person.ID, err)
	}
	cp := *person
	t.pendingPeople[person.ID] = &cp
	delete(t.removed, person.ID)
	t.ops = append(t.ops, func(pipe redis.Pipeliner) error {
		return pipe.HSet(t.ctx, redisPeopleKey, cp.ID, doc).Err()
	})
	return nil
}

func (t *redisTransaction) RemovePerson(ctx context.Context, id string) error {
	existing, err := t.GetPersonByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("person %s: %w", id, ErrNotFound)
	}
	delete(t.pendingPeople, id)
	t.removed[id] = true
	t.ops = append(t.ops, func(pipe redis.Pipeliner) error {
		if err := pipe.HDel(t.ctx, redisPeopleKey, id).Err(); err != nil {
			return err
		}
		return pipe.LRem(t.ctx, redisPeopleOrderKey, 0, id).Err()
	})
	return nil
}

func (t *redisTransaction) AddImage(ctx context.Context, image *Image) error {
	id, err := generateID()
	if err != nil {
		return err
	}
	image.ID = id
	return t.SeedImage(ctx, image)
}

func (t *redisTransaction) SeedImage(ctx context.Context, image *Image) error {
	existing, err := t.GetImageByID(ctx, image.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("insert image %s: already exists", image.ID)
	}
	return t.queueImage(image)
}

func (t *redisTransaction) UpdateImage(ctx context.Context, image *Image) error {
	existing, err := t.GetImageByID(ctx, image.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("image %s: %w", image.ID, ErrNotFound)
	}
	return t.queueImage(image)
}

func (t *redisTransaction) queueImage(image *Image) error {
	doc, err := json.Marshal(image)
	if err != nil {
		return fmt.Errorf("encode image %s: %w", image.ID, err)
	}
	cp := *image
	t.pendingImages[image.ID] = &cp
	t.ops = append(t.ops, func(pipe redis.Pipeliner) error {
		return pipe.HSet(t.ctx, redisImagesKey, cp.ID, doc).Err()
	})
	return nil
}

func (t *redisTransaction) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true
	if len(t.ops) == 0 {
		return nil
	}
	_, err := t.client.TxPipelined(t.ctx, func(pipe redis.Pipeliner) error {
		for _, op := range t.ops {
			if err := op(pipe); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis commit: %w", err)
	}
	return nil
}

func (t *redisTransaction) Rollback() error {
	t.done = true
	t.ops = nil
	return nil
}
