package repair

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"irmend/internal/backends"
	"irmend/internal/cache"
	"irmend/internal/ir"
)

// Chain runs an ordered list of repair backends over a block until one of
// them produces a result that passes validation. Results are memoized by
// block content, so identical blocks never pay for more than one traversal.
type Chain struct {
	backends []backends.RepairBackend
	cache    *cache.Cache
	log      *zap.Logger

	mu      sync.Mutex
	authErr error
}

// NewChain builds a Chain. The backend order is the retry order.
func NewChain(chain []backends.RepairBackend, c *cache.Cache, log *zap.Logger) *Chain {
	return &Chain{backends: chain, cache: c, log: log}
}

// Len reports the number of configured backends.
func (c *Chain) Len() int { return len(c.backends) }

// Name returns the name of the backend at the given chain index.
func (c *Chain) Name(idx int) string {
	if idx < 0 || idx >= len(c.backends) {
		return ""
	}
	return c.backends[idx].Name()
}

// AuthError returns the first credential rejection any backend reported
// during this chain's lifetime. Auth failures don't stop the chain (another
// backend may still repair the block), but they indicate misconfiguration
// the caller should surface.
func (c *Chain) AuthError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authErr
}

func (c *Chain) recordAuthError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.authErr == nil {
		c.authErr = err
	}
}

// Repair tries each backend in order and returns the first repaired block
// that the valid predicate accepts, along with the index of the backend that
// produced it. ok is false when every backend failed or none are configured;
// that outcome is cached too, so a rerun over the same content skips the
// chain entirely.
func (c *Chain) Repair(ctx context.Context, kind backends.BlockKind, block ir.Block, errs []string, valid func(ir.Block) bool) (ir.Block, int, bool) {
	if len(c.backends) == 0 {
		return nil, -1, false
	}

	key := cache.BuildKey(block.WidgetID(), block)
	entry := c.cache.Do(key, func() cache.Entry {
		return c.repairUncached(ctx, kind, block, errs, valid)
	})
	if !entry.OK {
		return nil, -1, false
	}
	return entry.Block, entry.Backend, true
}

func (c *Chain) repairUncached(ctx context.Context, kind backends.BlockKind, block ir.Block, errs []string, valid func(ir.Block) bool) cache.Entry {
	req := backends.RepairRequest{Kind: kind, Block: block, Errors: errs}

	for idx, backend := range c.backends {
		if ctx.Err() != nil {
			return cache.Entry{Backend: -1}
		}

		repaired, err := backend.Repair(ctx, req)
		if err != nil {
			if backends.IsAuthError(err) {
				c.recordAuthError(err)
			}
			c.log.Warn("repair backend failed",
				zap.String("backend", backend.Name()),
				zap.Int("index", idx),
				zap.String("widget", block.WidgetID()),
				zap.Error(err))
			continue
		}
		if repaired == nil {
			c.log.Warn("repair backend returned no block",
				zap.String("backend", backend.Name()),
				zap.Int("index", idx),
				zap.String("widget", block.WidgetID()))
			continue
		}
		if !valid(repaired) {
			c.log.Warn("repair backend result failed validation",
				zap.String("backend", backend.Name()),
				zap.Int("index", idx),
				zap.String("widget", block.WidgetID()))
			continue
		}

		c.log.Info("block repaired by backend",
			zap.String("backend", backend.Name()),
			zap.Int("index", idx),
			zap.String("widget", block.WidgetID()))
		return cache.Entry{Block: repaired, Backend: idx, OK: true}
	}

	return cache.Entry{Backend: -1}
}
