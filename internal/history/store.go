package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/madspace-uw/madspace/internal/types"
	_ "github.com/mattn/go-sqlite3"
)

// Store keeps each user's imported courses in a local SQLite file. Nothing in
// it is shared with Firestore.
type Store struct {
	db *sql.DB
}

// Upload describes the last file a user imported.
type Upload struct {
	Filename   string
	Count      int
	UploadedAt time.Time
}

// NewStore opens (and creates if needed) the SQLite database at path.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS taken_courses (
			user_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			course_code TEXT NOT NULL,
			semester TEXT NOT NULL,
			grade TEXT NOT NULL,
			PRIMARY KEY (user_id, position)
		);

		CREATE TABLE IF NOT EXISTS uploads (
			user_id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			course_count INTEGER NOT NULL,
			uploaded_at DATETIME NOT NULL
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate history database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Replace swaps the user's history for courses. Uploading a new file never
// merges with the previous one.
func (s *Store) Replace(ctx context.Context, userID, filename string, courses []types.TakenCourse) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM taken_courses WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO taken_courses (user_id, position, course_code, semester, grade)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	for i, course := range courses {
		if _, err := stmt.ExecContext(ctx, userID, i, course.CourseCode, course.Semester, course.Grade); err != nil {
			return fmt.Errorf("failed to insert history row: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO uploads (user_id, filename, course_count, uploaded_at)
		VALUES (?, ?, ?, ?)
	`, userID, filename, len(courses), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}

	return tx.Commit()
}

// List returns the user's courses in upload order.
func (s *Store) List(ctx context.Context, userID string) ([]types.TakenCourse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT course_code, semester, grade
		FROM taken_courses
		WHERE user_id = ?
		ORDER BY position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var courses []types.TakenCourse
	for rows.Next() {
		var c types.TakenCourse
		if err := rows.Scan(&c.CourseCode, &c.Semester, &c.Grade); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

// LastUpload returns nil when the user has never uploaded a file or has
// cleared their history.
func (s *Store) LastUpload(ctx context.Context, userID string) (*Upload, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT filename, course_count, uploaded_at FROM uploads WHERE user_id = ?
	`, userID)

	var u Upload
	if err := row.Scan(&u.Filename, &u.Count, &u.UploadedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query upload: %w", err)
	}
	return &u, nil
}

// Clear removes everything stored for the user.
func (s *Store) Clear(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM taken_courses WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM uploads WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear upload: %w", err)
	}

	return tx.Commit()
}

// Codes returns the set of normalized course codes the user has taken, used
// to mark course cards with "You took this".
func (s *Store) Codes(ctx context.Context, userID string) (map[string]bool, error) {
	courses, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	codes := make(map[string]bool, len(courses))
	for _, c := range courses {
		codes[NormalizeCode(c.CourseCode)] = true
	}
	return codes, nil
}

// NormalizeCode canonicalizes a course code for matching. Codes that do not
// parse are compared uppercased with collapsed whitespace.
func NormalizeCode(code string) string {
	if cc, err := types.ParseCourseCode(code); err == nil {
		return cc.String()
	}
	return strings.ToUpper(strings.Join(strings.Fields(code), " "))
}
