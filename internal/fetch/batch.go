package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one retrieval in a batch.
type Result struct {
	URL  string
	Body []byte
	Err  error
}

// FetchAll fetches urls with at most jobs requests in flight. Results keep the
// input order. A failed URL does not stop the others.
func (c *Client) FetchAll(ctx context.Context, urls []string, jobs int) []Result {
	if jobs < 1 {
		jobs = 1
	}

	results := make([]Result, len(urls))

	var g errgroup.Group
	g.SetLimit(jobs)

	for i, u := range urls {
		g.Go(func() error {
			body, err := c.Fetch(ctx, u)
			results[i] = Result{URL: u, Body: body, Err: err}

			return nil
		})
	}

	_ = g.Wait()

	return results
}
