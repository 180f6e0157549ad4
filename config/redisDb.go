package config

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var (
	rdb    *redis.Client
	locker *redislock.Client
)
var ctx = context.Background()

func GetRedisDB() *redis.Client {
	return rdb
}

func GetRedisLock() *redislock.Client {
	return locker
}

func GetRedisContext() context.Context {
	return ctx
}

// ConnectRedisWithRetry connects the shared client. Redis is optional:
// every helper below degrades to a no-op when the client is nil, so the
// engine stays correct (just slower) without a cache.
func ConnectRedisWithRetry() {
	address := os.Getenv("REDIS_ADDRESS")
	if address == "" {
		log.Printf("REDIS_ADDRESS not set; running without redis")
		return
	}

	var attempt int
	for {
		attempt++
		client := redis.NewClient(&redis.Options{
			Addr:     address,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err == nil {
			rdb = client
			locker = redislock.New(client)
			log.Printf("connected to redis (attempt=%d)", attempt)
			return
		} else {
			sleep := time.Second * time.Duration(min(attempt, 10))
			log.Printf("failed to connect redis (attempt=%d): %v; retrying in %s", attempt, err, sleep)
			time.Sleep(sleep)
		}
	}
}

func GetRedisObject(key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	err = json.Unmarshal([]byte(val), &dest)
	if err != nil {
		return false, err
	}
	return true, nil
}

func SetRedisObject(key string, obj interface{}, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, data, exp).Err()
}

func RemoveRedisKey(key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, key).Err()
}
