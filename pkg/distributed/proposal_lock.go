package distributed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// 只有持有锁的实例才能释放，用 Lua 保证原子性
const unlockScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`

// ProposalLocker 提案级别的互斥锁。
// 同一提案上的状态流转必须串行执行：先用进程内每提案一把的互斥锁保证
// 单实例串行，再在 Redis 可用时叠加 SET NX 分布式锁保证多实例串行。
// Redis 未启用（client为nil）时优雅降级为单机模式
type ProposalLocker struct {
	client *redis.Client
	expiry time.Duration

	mu    sync.Mutex
	local map[string]*localEntry
}

type localEntry struct {
	mu   sync.Mutex
	refs int
}

// NewProposalLocker 创建提案锁管理器
func NewProposalLocker(client *redis.Client, expiry time.Duration) *ProposalLocker {
	if expiry <= 0 {
		expiry = 30 * time.Second
	}
	return &ProposalLocker{
		client: client,
		expiry: expiry,
		local:  make(map[string]*localEntry),
	}
}

// Lock 获取指定提案的锁，阻塞直到拿到或 ctx 超时。
// 返回的 release 必须在同一次操作结束时调用
func (pl *ProposalLocker) Lock(ctx context.Context, proposalID string) (release func(), err error) {
	entry := pl.acquireEntry(proposalID)
	entry.mu.Lock()

	if pl.client == nil {
		// 单机模式，进程内互斥已足够
		return func() {
			entry.mu.Unlock()
			pl.releaseEntry(proposalID)
		}, nil
	}

	key := "sammati:proposal:lock:" + proposalID
	value := uuid.New().String() // 使用 UUID 作为锁的值，防止误释放

	// SET NX EX 自旋，直到拿到锁或超时
	for {
		ok, err := pl.client.SetNX(ctx, key, value, pl.expiry).Result()
		if err != nil {
			entry.mu.Unlock()
			pl.releaseEntry(proposalID)
			return nil, fmt.Errorf("failed to acquire proposal lock %s: %w", proposalID, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			entry.mu.Unlock()
			pl.releaseEntry(proposalID)
			return nil, fmt.Errorf("timed out acquiring proposal lock %s: %w", proposalID, ctx.Err())
		case <-time.After(50 * time.Millisecond):
		}
	}

	return func() {
		// 解锁用独立上下文，调用方的 ctx 可能已经取消
		pl.client.Eval(context.Background(), unlockScript, []string{key}, value)
		entry.mu.Unlock()
		pl.releaseEntry(proposalID)
	}, nil
}

func (pl *ProposalLocker) acquireEntry(proposalID string) *localEntry {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	entry, ok := pl.local[proposalID]
	if !ok {
		entry = &localEntry{}
		pl.local[proposalID] = entry
	}
	entry.refs++
	return entry
}

func (pl *ProposalLocker) releaseEntry(proposalID string) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	entry, ok := pl.local[proposalID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(pl.local, proposalID)
	}
}
