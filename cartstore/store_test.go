package cartstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/farmers-market-api/models"
)

func setupRedisStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewRedisStore(client, ttl)
}

func line(id string, productID uint, qty int, price float64) models.CartLine {
	return models.CartLine{
		ID:        id,
		ProductID: productID,
		Item:      fmt.Sprintf("item-%d", productID),
		Qty:       qty,
		Price:     price,
		Amount:    float64(qty) * price,
		SellerID:  1,
	}
}

func stores(t *testing.T) map[string]Store {
	_, rs := setupRedisStore(t, time.Hour)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  rs,
	}
}

func TestStore_AppendKeepsOrder(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Append(ctx, "s1", line("a", 1, 2, 10))
			require.NoError(t, err)
			lines, err := store.Append(ctx, "s1", line("b", 2, 1, 5))
			require.NoError(t, err)

			require.Len(t, lines, 2)
			assert.Equal(t, "a", lines[0].ID)
			assert.Equal(t, "b", lines[1].ID)

			got, err := store.Lines(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, lines, got)
		})
	}
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Append(ctx, "alice", line("a", 1, 1, 1))
			require.NoError(t, err)

			bob, err := store.Lines(ctx, "bob")
			require.NoError(t, err)
			assert.NotNil(t, bob)
			assert.Empty(t, bob)
		})
	}
}

func TestStore_RemoveAt(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i, id := range []string{"a", "b", "c"} {
				_, err := store.Append(ctx, "s", line(id, uint(i+1), 1, 1))
				require.NoError(t, err)
			}

			lines, err := store.RemoveAt(ctx, "s", 1)
			require.NoError(t, err)
			require.Len(t, lines, 2)
			assert.Equal(t, "a", lines[0].ID)
			assert.Equal(t, "c", lines[1].ID)

			_, err = store.RemoveAt(ctx, "s", 2)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			_, err = store.RemoveAt(ctx, "s", -1)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)

			got, err := store.Lines(ctx, "s")
			require.NoError(t, err)
			assert.Len(t, got, 2, "failed removal must not change the cart")
		})
	}
}

func TestStore_RemoveByID(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Append(ctx, "s", line("a", 1, 1, 1))
			require.NoError(t, err)
			_, err = store.Append(ctx, "s", line("b", 2, 1, 1))
			require.NoError(t, err)

			lines, err := store.Remove(ctx, "s", "a")
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.Equal(t, "b", lines[0].ID)

			_, err = store.Remove(ctx, "s", "a")
			assert.ErrorIs(t, err, ErrLineNotFound)
		})
	}
}

func TestStore_Clear(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Append(ctx, "s", line("a", 1, 1, 1))
			require.NoError(t, err)

			require.NoError(t, store.Clear(ctx, "s"))
			require.NoError(t, store.Clear(ctx, "never-used"))

			lines, err := store.Lines(ctx, "s")
			require.NoError(t, err)
			assert.Empty(t, lines)
		})
	}
}

func TestStore_ConcurrentAppends(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const n = 25

			var wg sync.WaitGroup
			errs := make(chan error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := store.Append(ctx, "busy", line(fmt.Sprintf("l%d", i), uint(i+1), 1, 1))
					errs <- err
				}(i)
			}
			wg.Wait()
			close(errs)

			failures := 0
			for err := range errs {
				if err != nil {
					assert.ErrorIs(t, err, ErrContention)
					failures++
				}
			}

			lines, err := store.Lines(ctx, "busy")
			require.NoError(t, err)
			assert.Len(t, lines, n-failures, "no successful append may be lost")
		})
	}
}

func TestStore_TakeEmptiesCart(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Append(ctx, "s", line("a", 1, 2, 10))
			require.NoError(t, err)
			_, err = store.Append(ctx, "s", line("b", 2, 1, 5))
			require.NoError(t, err)

			taken, err := store.Take(ctx, "s")
			require.NoError(t, err)
			require.Len(t, taken, 2)
			assert.Equal(t, "a", taken[0].ID)

			left, err := store.Lines(ctx, "s")
			require.NoError(t, err)
			assert.Empty(t, left)

			again, err := store.Take(ctx, "s")
			require.NoError(t, err)
			assert.NotNil(t, again)
			assert.Empty(t, again)
		})
	}
}

func TestStore_RestorePrependsTakenLines(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Append(ctx, "s", line("a", 1, 1, 1))
			require.NoError(t, err)
			_, err = store.Append(ctx, "s", line("b", 2, 1, 1))
			require.NoError(t, err)

			taken, err := store.Take(ctx, "s")
			require.NoError(t, err)
			_, err = store.Append(ctx, "s", line("c", 3, 1, 1))
			require.NoError(t, err)

			require.NoError(t, store.Restore(ctx, "s", taken))
			require.NoError(t, store.Restore(ctx, "s", nil))

			lines, err := store.Lines(ctx, "s")
			require.NoError(t, err)
			require.Len(t, lines, 3)
			assert.Equal(t, []string{"a", "b", "c"}, []string{lines[0].ID, lines[1].ID, lines[2].ID})
		})
	}
}

func TestStore_ConcurrentTakeHandsOutLinesOnce(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for round := 0; round < 20; round++ {
				_, err := store.Append(ctx, "s", line(fmt.Sprintf("r%d", round), 1, 1, 1))
				require.NoError(t, err)

				const takers = 4
				got := make(chan int, takers)
				var wg sync.WaitGroup
				for i := 0; i < takers; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						lines, err := store.Take(ctx, "s")
						assert.NoError(t, err)
						got <- len(lines)
					}()
				}
				wg.Wait()
				close(got)

				total := 0
				for n := range got {
					total += n
				}
				assert.Equal(t, 1, total, "round %d", round)
			}
		})
	}
}

func TestRedisStore_AppliesTTL(t *testing.T) {
	mr, store := setupRedisStore(t, 30*time.Minute)
	ctx := context.Background()

	_, err := store.Append(ctx, "s", line("a", 1, 1, 1))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, mr.TTL("cart:s"))

	mr.FastForward(31 * time.Minute)
	lines, err := store.Lines(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	mr, store := setupRedisStore(t, 0)
	require.NoError(t, mr.Set("cart:s", "{not json"))

	_, err := store.Lines(context.Background(), "s")
	assert.Error(t, err)

	_, err = store.Take(context.Background(), "s")
	assert.Error(t, err)
}
