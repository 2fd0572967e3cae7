package redis

import (
	"context"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/commerce/repository"
)

type orderNumberSequence struct {
	client *redislib.Client
	prefix string
}

// NewOrderNumberSequence allocates order numbers with INCR on a per-year key.
func NewOrderNumberSequence(client *redislib.Client) repository.OrderNumberSequence {
	return &orderNumberSequence{client: client, prefix: "order_number:"}
}

func (s *orderNumberSequence) Next(ctx context.Context, year int) (int64, error) {
	return s.client.Incr(ctx, fmt.Sprintf("%s%d", s.prefix, year)).Result()
}
