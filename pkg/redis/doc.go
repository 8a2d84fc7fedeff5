// Package redis connects to Redis with retries and provides JSONStore, a small
// typed key/value wrapper used for wizard sessions and the account cache.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	sessions := redis.NewJSONStore[wizard.Session](client, cfg.Redis.KeyPrefix+"wizard:", 24*time.Hour)
package redis
