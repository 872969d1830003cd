package diag

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeList backs the log with an in-memory list. Only the commands the log
// actually issues are implemented; anything else panics through the embedded
// nil interface.
type fakeList struct {
	redis.Cmdable
	mu   sync.Mutex
	list []string
}

func (f *fakeList) Pipeline() redis.Pipeliner {
	return &fakePipe{backing: f}
}

func (f *fakeList) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringSliceCmd(ctx)
	if start >= int64(len(f.list)) {
		cmd.SetVal(nil)
		return cmd
	}
	end := stop + 1
	if end > int64(len(f.list)) {
		end = int64(len(f.list))
	}
	cmd.SetVal(append([]string(nil), f.list[start:end]...))
	return cmd
}

// fakePipe buffers LPUSH and LTRIM and applies them on Exec, the way a Redis
// pipeline does.
type fakePipe struct {
	redis.Pipeliner
	backing *fakeList
	pushes  []string
	trim    *[2]int64
}

func (p *fakePipe) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	for _, v := range values {
		switch val := v.(type) {
		case []byte:
			p.pushes = append(p.pushes, string(val))
		case string:
			p.pushes = append(p.pushes, val)
		default:
			p.pushes = append(p.pushes, fmt.Sprint(val))
		}
	}
	return redis.NewIntCmd(ctx)
}

func (p *fakePipe) LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd {
	p.trim = &[2]int64{start, stop}
	return redis.NewStatusCmd(ctx)
}

func (p *fakePipe) Exec(ctx context.Context) ([]redis.Cmder, error) {
	p.backing.mu.Lock()
	defer p.backing.mu.Unlock()
	for _, v := range p.pushes {
		p.backing.list = append([]string{v}, p.backing.list...)
	}
	if p.trim != nil {
		start, stop := p.trim[0], p.trim[1]
		if start >= int64(len(p.backing.list)) {
			p.backing.list = nil
		} else {
			end := stop + 1
			if end > int64(len(p.backing.list)) {
				end = int64(len(p.backing.list))
			}
			p.backing.list = p.backing.list[start:end]
		}
	}
	return nil, nil
}

func TestLogRecordAndList(t *testing.T) {
	log := NewLog(&fakeList{})
	ctx := context.Background()

	log.Record(ctx, "market", "steam returned 429")

	entries, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "market", entries[0].Component)
	assert.Equal(t, "steam returned 429", entries[0].Message)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestLogCapsAtMaxEntries(t *testing.T) {
	log := NewLog(&fakeList{})
	ctx := context.Background()

	for i := 0; i < MaxEntries+10; i++ {
		log.Record(ctx, "telegram", fmt.Sprintf("failure %d", i))
	}

	entries, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, MaxEntries)

	// Most recent first; the ten oldest entries fell off the end.
	assert.Equal(t, fmt.Sprintf("failure %d", MaxEntries+9), entries[0].Message)
	assert.Equal(t, "failure 10", entries[len(entries)-1].Message)
}

func TestLogSkipsMalformedEntries(t *testing.T) {
	fake := &fakeList{list: []string{"not json"}}
	log := NewLog(fake)
	ctx := context.Background()

	log.Record(ctx, "rates", "cbr unreachable")

	entries, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rates", entries[0].Component)
}

func TestLogEmpty(t *testing.T) {
	log := NewLog(&fakeList{})

	entries, err := log.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
