// Package pagecache caches pages of posts by page number.
//
// A page is fresh for Config.FreshFor after it was fetched. A fresh page is
// served without touching the upstream; a stale or missing page is fetched
// again. Stale pages stay visible through Peek until they have gone unused for
// Config.RetainFor, after which the sweeper evicts them.
//
// Concurrent Get calls for the same page share one in-flight fetch and all
// receive the same *posts.Page. Failed fetches are retried with exponential
// backoff and surface as *FetchFailed; they are never cached as data.
//
// Example usage:
//
//	pages, err := pagecache.New(fetcher, pagecache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	pages.Start(ctx)
//	defer pages.Close()
//
//	page, err := pages.Get(ctx, 1)
//	if err == nil {
//		pages.PrefetchNeighbors(page)
//	}
//
// Prefetch never reports errors; a failed prefetch only leaves an error
// entry behind for the next Get to retry.
package pagecache
