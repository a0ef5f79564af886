package storage

import (
	"log"

	"rentora-server/config"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

func InitializeRedis() {
	addr := config.Get().RedisURL

	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})

	log.Println("redis initialized with address:", addr)
}
