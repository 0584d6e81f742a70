package firebase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/madspace-uw/madspace/internal/types"
	"google.golang.org/api/iterator"
)

// CourseCandidates loads every course of a department, or the whole catalog
// when department is empty. Firestore has no substring search and cannot
// combine a range filter on number with an arbitrary sort, so the remaining
// filters are applied in memory by the caller.
func (c *Firestore) CourseCandidates(ctx context.Context, department string) ([]types.Course, error) {
	query := c.Collection(coursesCollection).Query
	if dept := strings.TrimSpace(department); dept != "" {
		query = query.Where("department_code", "==", strings.ToUpper(dept))
	}

	return c.collectCourses(ctx, query)
}

func (c *Firestore) collectCourses(ctx context.Context, query firestore.Query) ([]types.Course, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var courses []types.Course
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get next course: %w", err)
		}

		var course types.Course
		if err := doc.DataTo(&course); err != nil {
			continue
		}
		if course.ID == "" {
			course.ID = doc.Ref.ID
		}
		courses = append(courses, course)
	}

	return courses, nil
}

// GetCourse loads a course by its code, e.g. "MATH 521".
func (c *Firestore) GetCourse(ctx context.Context, code string) (*types.Course, error) {
	cc, err := types.ParseCourseCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	doc, err := c.Collection(coursesCollection).Doc(sanitizeDocID(cc.ID())).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("course %s: %w", cc, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get course %s: %w", cc, err)
	}

	var course types.Course
	if err := doc.DataTo(&course); err != nil {
		return nil, fmt.Errorf("failed to decode course %s: %w", cc, err)
	}
	if course.ID == "" {
		course.ID = doc.Ref.ID
	}

	return &course, nil
}

func (c *Firestore) existingCourseIDs(ctx context.Context) (map[string]struct{}, error) {
	iter := c.Collection(coursesCollection).Select().Documents(ctx)
	defer iter.Stop()

	ids := make(map[string]struct{})
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list course ids: %w", err)
		}
		ids[doc.Ref.ID] = struct{}{}
	}
	return ids, nil
}

/*
ImportCatalog upserts departments and courses.

  - departments/{department_code}
  - courses/{course_id}

Only catalog fields are written with MergeAll so re-importing never resets
review_count or rating_totals. created_at is set the first time a course is
seen.
*/
func (c *Firestore) ImportCatalog(ctx context.Context, departments []types.Department, courses []types.Course) error {
	existing, err := c.existingCourseIDs(ctx)
	if err != nil {
		return err
	}

	writer := c.BulkWriter(ctx)
	defer writer.End()

	for _, dept := range departments {
		id := sanitizeDocID(strings.ToUpper(dept.Code))
		if id == "" {
			continue
		}
		if _, err := writer.Set(c.Collection(departmentsCollection).Doc(id), map[string]any{
			"code": dept.Code,
			"name": dept.Name,
		}, firestore.MergeAll); err != nil {
			return fmt.Errorf("failed to queue department %s: %w", dept.Code, err)
		}
	}

	now := time.Now().UTC()
	for _, course := range courses {
		id := sanitizeDocID(course.ID)
		if id == "" {
			continue
		}

		data := map[string]any{
			"id":              id,
			"code":            course.Code,
			"department_code": course.DepartmentCode,
			"number":          course.Number,
			"name":            course.Name,
			"description":     course.Description,
			"credits":         course.Credits,
			"department":      course.Department,
		}
		if _, seen := existing[id]; !seen {
			data["created_at"] = now
			data["review_count"] = 0
		}

		if _, err := writer.Set(c.Collection(coursesCollection).Doc(id), data, firestore.MergeAll); err != nil {
			return fmt.Errorf("failed to queue course %s: %w", course.Code, err)
		}
	}

	writer.Flush()
	return nil
}

// ExportCatalog returns the whole catalog, departments sorted by code.
func (c *Firestore) ExportCatalog(ctx context.Context) ([]types.Department, []types.Course, error) {
	departments, err := c.Departments(ctx)
	if err != nil {
		return nil, nil, err
	}

	courses, err := c.collectCourses(ctx, c.Collection(coursesCollection).OrderBy("code", firestore.Asc))
	if err != nil {
		return nil, nil, err
	}

	return departments, courses, nil
}
