package rules

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

// SetMemberChecker is the subset of redis.Cmdable used by the Redis rules.
// *redis.Client, *redis.ClusterClient and *redis.Ring satisfy it.
type SetMemberChecker interface {
	SIsMember(ctx context.Context, key string, member any) *redis.BoolCmd
}

// RedisSetMember requires the value to be a member of the Redis set at key,
// for example an allow-list of plan codes.
func RedisSetMember(client SetMemberChecker, key string) *validation.Rule {
	return redisRule(client, key, "validation.in_set", "is not allowed", true)
}

// RedisNotSetMember requires the value to be absent from the Redis set at key,
// for example a set of already registered usernames.
func RedisNotSetMember(client SetMemberChecker, key string) *validation.Rule {
	return redisRule(client, key, "validation.not_in_set", "is already taken", false)
}

func redisRule(client SetMemberChecker, key, name, message string, member bool) *validation.Rule {
	return Lookup(name, func(ctx context.Context, value any) (bool, error) {
		v := indirect(value)
		if !v.IsValid() {
			return false, nil
		}
		found, err := client.SIsMember(ctx, key, v.Interface()).Result()
		if err != nil {
			return false, fmt.Errorf("redis SISMEMBER %s: %w", key, err)
		}
		return found == member, nil
	}, validation.WithMessage(message), validation.WithArgs(map[string]any{"set": key}))
}
