package pagecache

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Warm loads pages from through to into the cache with bounded concurrency.
// Pages beyond the known total are skipped. The first failure cancels the
// remaining fetches and is returned.
func (c *Cache) Warm(ctx context.Context, from, to int) error {
	if from < 1 {
		from = 1
	}
	if to < from {
		return fmt.Errorf("invalid warm range %d..%d", from, to)
	}
	if total, ok := c.TotalPages(); ok && to > total {
		to = total
	}

	c.logger.Info().Int("from", from).Int("to", to).Msg("Warming page cache")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.WarmConcurrency)

	for page := from; page <= to; page++ {
		page := page
		g.Go(func() error {
			if _, err := c.Get(gctx, page); err != nil {
				return fmt.Errorf("warm page %d: %w", page, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Warn().Err(err).Msg("Page cache warm-up incomplete")
		return err
	}

	c.logger.Info().Int("entries", c.Len()).Msg("Page cache warmed")
	return nil
}
