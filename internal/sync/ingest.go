package sync

import (
	"context"
	"fmt"

	"github.com/existflow/issuegantt/internal/github"
)

// PageFunc fetches the page at cursor; an empty cursor means the first page
type PageFunc[T any] func(ctx context.Context, cursor string) (github.Page[T], error)

// Drain walks every page of a collection in order and returns all items.
// Page N+1 is requested only after page N has been folded in. Any error
// aborts the walk and nothing is returned.
func Drain[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	items := []T{}
	seen := map[string]bool{}
	cursor := ""

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrRemote, page, err)
		}

		p, err := fetch(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrRemote, page, err)
		}
		items = append(items, p.Items...)

		if p.Next == "" {
			return items, nil
		}
		if seen[p.Next] {
			return nil, fmt.Errorf("%w: page %d links back to %s", ErrRemote, page, p.Next)
		}
		seen[p.Next] = true
		cursor = p.Next
	}
}
