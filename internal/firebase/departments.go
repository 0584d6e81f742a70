package firebase

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/madspace-uw/madspace/internal/types"
	"google.golang.org/api/iterator"
)

// Departments returns all departments ordered by code.
func (c *Firestore) Departments(ctx context.Context) ([]types.Department, error) {
	iter := c.Collection(departmentsCollection).OrderBy("code", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var departments []types.Department
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get next department: %w", err)
		}

		var dept types.Department
		if err := doc.DataTo(&dept); err != nil {
			continue
		}
		if strings.TrimSpace(dept.Code) == "" {
			dept.Code = doc.Ref.ID
		}
		departments = append(departments, dept)
	}

	return departments, nil
}
