package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/madspace-uw/madspace/internal/types"
	"google.golang.org/api/iterator"
)

/*
SubmitReview stores a review and folds its ratings into the course aggregates
in a single transaction:

  - reviews/{review_id}           created
  - courses/{course_id}           review_count and rating_totals incremented
  - reviewers/{user_id}           upserted, counts distinct reviewers
*/
func (c *Firestore) SubmitReview(ctx context.Context, review types.Review) (types.Review, error) {
	if err := review.Validate(); err != nil {
		return types.Review{}, err
	}

	cc, err := types.ParseCourseCode(review.CourseCode)
	if err != nil {
		return types.Review{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	review.CourseID = cc.ID()
	review.CourseCode = cc.String()
	review.Semester = strings.TrimSpace(review.Semester)
	review.Comment = strings.TrimSpace(review.Comment)
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	courseRef := c.Collection(coursesCollection).Doc(review.CourseID)
	reviewRef := c.Collection(reviewsCollection).Doc(review.ID)
	reviewerRef := c.Collection(reviewersCollection).Doc(sanitizeDocID(review.UserID))

	err = c.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(courseRef); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("course %s: %w", review.CourseCode, ErrNotFound)
			}
			return err
		}

		if err := tx.Create(reviewRef, review); err != nil {
			return err
		}

		if err := tx.Update(courseRef, []firestore.Update{
			{Path: "review_count", Value: firestore.Increment(1)},
			{Path: "rating_totals.content", Value: firestore.Increment(review.Content)},
			{Path: "rating_totals.teaching", Value: firestore.Increment(review.Teaching)},
			{Path: "rating_totals.grading", Value: firestore.Increment(review.Grading)},
			{Path: "rating_totals.workload", Value: firestore.Increment(review.Workload)},
		}); err != nil {
			return err
		}

		return tx.Set(reviewerRef, map[string]any{
			"user_id":        review.UserID,
			"last_review_at": review.CreatedAt,
			"review_count":   firestore.Increment(1),
		}, firestore.MergeAll)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return types.Review{}, err
		}
		return types.Review{}, fmt.Errorf("failed to submit review: %w", err)
	}

	return review, nil
}

// CourseReviews returns the newest reviews for a course.
func (c *Firestore) CourseReviews(ctx context.Context, courseID string, limit int) ([]types.Review, error) {
	query := c.Collection(reviewsCollection).
		Where("course_id", "==", courseID).
		OrderBy("created_at", firestore.Desc)

	return c.collectReviews(ctx, query, limit)
}

// UserReviews returns the newest reviews written by a user.
func (c *Firestore) UserReviews(ctx context.Context, userID string, limit int) ([]types.Review, error) {
	query := c.Collection(reviewsCollection).
		Where("user_id", "==", userID).
		OrderBy("created_at", firestore.Desc)

	return c.collectReviews(ctx, query, limit)
}

func (c *Firestore) collectReviews(ctx context.Context, query firestore.Query, limit int) ([]types.Review, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var reviews []types.Review
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get next review: %w", err)
		}

		var review types.Review
		if err := doc.DataTo(&review); err != nil {
			continue
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}
