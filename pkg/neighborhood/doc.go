// Package neighborhood provides [expand.Fetcher] implementations that look
// up the elements surrounding an argument.
//
// Three sources are available:
//
//   - [Client] talks to an HTTP argument service, with optional caching
//     (any [cache.Cache], typically Redis or the file cache) and retry with
//     backoff on transient failures.
//   - [Memory] serves a complete graph held in memory, useful for the CLI,
//     tests and hosts that already have every element.
//   - mongostore.Store reads nodes and edges from MongoDB.
//
// All sources validate argument ids with [errors.ValidateArgumentID] before
// doing any work and report unknown arguments with ErrCodeNotFound.
//
// # Example
//
//	c, err := neighborhood.NewClient("https://args.example.com/api",
//	    neighborhood.WithCache(redisCache, nil),
//	    neighborhood.WithHeaders(map[string]string{"Authorization": "Bearer " + token}),
//	)
//	d, err := c.Neighborhood(ctx, "17", expand.DefaultFilters())
package neighborhood
