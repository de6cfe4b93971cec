package homeassistant

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// MaxConcurrency bounds the requests StatesOf keeps in flight.
const MaxConcurrency = 8

// StatesOf fetches the state of each entity concurrently and returns them in
// the order of entityIDs. Every id must be non-empty; an empty id fails with
// ErrEmptyEntityID before any request is made. The first failure cancels the
// remaining requests and is returned.
func (c *Client) StatesOf(ctx context.Context, creds Credentials, entityIDs ...string) ([]State, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}
	for i, id := range entityIDs {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("entity at position %d: %w", i, ErrEmptyEntityID)
		}
	}

	// Resolve once so a missing credential fails before any request.
	resolved, err := c.resolve(creds)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrency)

	states := make([]State, len(entityIDs))
	for i, id := range entityIDs {
		g.Go(func() error {
			state, err := c.state(ctx, resolved, id)
			if err != nil {
				c.logger.Debug().Err(err).Str("entity_id", id).Msg("Failed to fetch state")
				return err
			}
			states[i] = state
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}
