// Package sessions implements session.Store on redis and in memory.
package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
)

const keyPrefix = "session:"

// record is the stored form of a session; unlike the API form it keeps the token.
type record struct {
	session.Session
	Token string `json:"token"`
}

func encode(sess session.Session) ([]byte, error) {
	data, err := json.Marshal(record{Session: sess, Token: sess.Token})
	return data, errors.Wrap(err, "encoding session")
}

func decode(data []byte) (session.Session, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding session")
	}
	sess := rec.Session
	sess.Token = rec.Token
	return sess, nil
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ session.Store = (*RedisStore)(nil)

// NewRedisStore connects to redis and checks the connection.
func NewRedisStore(ctx context.Context, conf *core.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &RedisStore{client: client, ttl: conf.Redis.SessionTTL}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Save(ctx context.Context, sess session.Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	return errors.Wrap(s.client.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err(), "saving session")
}

func (s *RedisStore) Get(ctx context.Context, id string) (session.Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, errors.Wrap(err, "reading session")
	}
	return decode(data)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}
