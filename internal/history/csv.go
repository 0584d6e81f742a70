// Package history stores the courses a user has already taken, imported
// from a CSV export of their transcript.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/madspace-uw/madspace/internal/types"
)

// MaxUploadBytes caps the size of an uploaded history file.
const MaxUploadBytes = 1 << 20

// ExpectedHeader documents the column order users are told to upload.
const ExpectedHeader = "course_code,semester,grade"

var ErrNotCSV = errors.New("history upload must be a .csv file")

// ParseCSV reads course_code,semester,grade rows one line at a time. The first
// line is always the header, even when blank. Fields are split on commas with
// no quoting; rows missing any of the three fields are skipped and extra
// columns are ignored.
func ParseCSV(r io.Reader) ([]types.TakenCourse, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxUploadBytes)

	courses := []types.TakenCourse{}
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			continue
		}

		course := types.TakenCourse{
			CourseCode: strings.TrimSpace(fields[0]),
			Semester:   strings.TrimSpace(fields[1]),
			Grade:      strings.TrimSpace(fields[2]),
		}
		if course.CourseCode == "" || course.Semester == "" || course.Grade == "" {
			continue
		}
		courses = append(courses, course)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history csv: %w", err)
	}

	return courses, nil
}

// CheckUpload accepts files named *.csv or declared as text/csv.
func CheckUpload(filename, contentType string) error {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil
	}
	if strings.HasPrefix(strings.ToLower(contentType), "text/csv") {
		return nil
	}
	return ErrNotCSV
}
