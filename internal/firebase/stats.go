package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/madspace-uw/madspace/internal/types"
)

// SiteStats counts reviews, courses and reviewers with aggregation queries,
// so no documents are transferred.
func (c *Firestore) SiteStats(ctx context.Context) (types.SiteStats, error) {
	var stats types.SiteStats
	var err error

	if stats.Reviews, err = c.count(ctx, reviewsCollection); err != nil {
		return types.SiteStats{}, err
	}
	if stats.Courses, err = c.count(ctx, coursesCollection); err != nil {
		return types.SiteStats{}, err
	}
	if stats.Reviewers, err = c.count(ctx, reviewersCollection); err != nil {
		return types.SiteStats{}, err
	}

	return stats, nil
}

func (c *Firestore) count(ctx context.Context, collection string) (int64, error) {
	result, err := c.Collection(collection).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}

	raw, ok := result["all"]
	if !ok {
		return 0, fmt.Errorf("count of %s missing from aggregation result", collection)
	}

	value, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected aggregation value %T for %s", raw, collection)
	}

	return value.GetIntegerValue(), nil
}
