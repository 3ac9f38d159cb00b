package sessionstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/account"
)

const (
	sessionKeyPrefix = "session:"      // String: session:{id} -> JSON-encoded session
	userKeyPrefix    = "session:user:" // String: session:user:{role}:{userID} -> session ID
)

type redisRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRegistry shares sessions across API instances. Keys expire with the
// session TTL so stale entries never need sweeping.
func NewRedisRegistry(conf *core.Config) (account.SessionRegistry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &redisRegistry{client: client, ttl: conf.Server.SessionTTL}, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func sessionUserKey(role, userID string) string {
	return userKeyPrefix + role + ":" + userID
}

func (reg *redisRegistry) Put(ctx context.Context, s account.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}

	pipe := reg.client.Pipeline()
	pipe.Set(ctx, sessionKey(s.ID), data, reg.ttl)
	pipe.Set(ctx, sessionUserKey(s.Role, s.UserID), s.ID, reg.ttl)
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "storing session")
	}
	return nil
}

func (reg *redisRegistry) Get(ctx context.Context, id string) (account.Session, error) {
	data, err := reg.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return account.Session{}, account.ErrSessionGone
	} else if err != nil {
		return account.Session{}, errors.Wrap(err, "fetching session")
	}

	var s account.Session
	if err = json.Unmarshal(data, &s); err != nil {
		return account.Session{}, errors.Wrap(err, "decoding session")
	}
	return s, nil
}

func (reg *redisRegistry) FindByUser(ctx context.Context, role, userID string) (account.Session, error) {
	id, err := reg.client.Get(ctx, sessionUserKey(role, userID)).Result()
	if err == redis.Nil {
		return account.Session{}, account.ErrSessionGone
	} else if err != nil {
		return account.Session{}, errors.Wrap(err, "fetching session index")
	}
	return reg.Get(ctx, id)
}

func (reg *redisRegistry) Delete(ctx context.Context, id string) error {
	s, err := reg.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := reg.client.Pipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.Del(ctx, sessionUserKey(s.Role, s.UserID))
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

func (reg *redisRegistry) DeleteByUser(ctx context.Context, role, userID string) error {
	s, err := reg.FindByUser(ctx, role, userID)
	if err != nil {
		return err
	}
	return reg.Delete(ctx, s.ID)
}
