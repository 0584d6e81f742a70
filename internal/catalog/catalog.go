// Package catalog reads course catalog files (JSON or YAML) and normalizes
// them for import into Firestore.
package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/madspace-uw/madspace/internal/types"
	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog format.
//
//	departments:
//	  - code: MATH
//	    name: Mathematics
//	courses:
//	  - code: MATH 521
//	    name: Analysis I
//	    credits: 3
type File struct {
	Departments []types.Department `json:"departments" yaml:"departments"`
	Courses     []Entry            `json:"courses" yaml:"courses"`
}

// Entry is one course as written in a catalog file.
type Entry struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Credits     int    `json:"credits" yaml:"credits"`
	Department  string `json:"department" yaml:"department"`
}

// Catalog is the merged, normalized result of one or more files.
type Catalog struct {
	Files       int
	Departments []types.Department
	Courses     []types.Course
	Warnings    []string
}

// Decode parses a single catalog file. The format is chosen by extension.
func Decode(name string, data []byte) (File, error) {
	var f File
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	default:
		return File{}, fmt.Errorf("unsupported catalog file %s", name)
	}
	return f, nil
}

// LoadDir reads every .json, .yaml and .yml file under dir, walking
// subdirectories in lexical order, and merges them. Later files win when a
// course appears twice.
func LoadDir(dir string) (Catalog, error) {
	var files []File
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		f, err := Decode(entry.Name(), data)
		if err != nil {
			return err
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	if len(files) == 0 {
		return Catalog{}, fmt.Errorf("no catalog files found in %s", dir)
	}

	cat := Merge(files...)
	cat.Files = len(files)
	return cat, nil
}

func isCatalogFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Merge normalizes and combines files. Invalid courses are dropped with a
// warning rather than failing the whole import.
func Merge(files ...File) Catalog {
	var cat Catalog
	departments := make(map[string]types.Department)
	courses := make(map[string]types.Course)

	for _, f := range files {
		for _, d := range f.Departments {
			code := strings.ToUpper(strings.Join(strings.Fields(d.Code), " "))
			if code == "" {
				cat.Warnings = append(cat.Warnings, "skipping department with empty code")
				continue
			}
			name := strings.TrimSpace(d.Name)
			if name == "" {
				name = code
			}
			departments[code] = types.Department{Code: code, Name: name}
		}
	}

	for _, f := range files {
		for _, e := range f.Courses {
			cc, err := types.ParseCourseCode(e.Code)
			if err != nil {
				cat.Warnings = append(cat.Warnings, fmt.Sprintf("skipping course: %v", err))
				continue
			}

			name := strings.TrimSpace(e.Name)
			if name == "" {
				cat.Warnings = append(cat.Warnings, fmt.Sprintf("skipping course %s: missing name", cc))
				continue
			}

			if e.Credits < 0 {
				cat.Warnings = append(cat.Warnings, fmt.Sprintf("course %s: negative credits ignored", cc))
				e.Credits = 0
			}

			dept, ok := departments[cc.Department]
			if !ok {
				dept = types.Department{Code: cc.Department, Name: cc.Department}
				departments[cc.Department] = dept
			}
			deptName := strings.TrimSpace(e.Department)
			if deptName == "" {
				deptName = dept.Name
			}

			courses[cc.ID()] = types.Course{
				ID:             cc.ID(),
				Code:           cc.String(),
				DepartmentCode: cc.Department,
				Number:         cc.Number,
				Name:           name,
				Description:    strings.TrimSpace(e.Description),
				Credits:        e.Credits,
				Department:     deptName,
			}
		}
	}

	for _, d := range departments {
		cat.Departments = append(cat.Departments, d)
	}
	sort.Slice(cat.Departments, func(i, j int) bool {
		return cat.Departments[i].Code < cat.Departments[j].Code
	})

	for _, c := range courses {
		cat.Courses = append(cat.Courses, c)
	}
	sort.Slice(cat.Courses, func(i, j int) bool {
		return cat.Courses[i].Code < cat.Courses[j].Code
	})

	return cat
}

// Encode renders a catalog back into the JSON file format, used by export.
func Encode(departments []types.Department, courses []types.Course) ([]byte, error) {
	f := File{Departments: departments}
	for _, c := range courses {
		f.Courses = append(f.Courses, Entry{
			Code:        c.Code,
			Name:        c.Name,
			Description: c.Description,
			Credits:     c.Credits,
			Department:  c.Department,
		})
	}
	return json.MarshalIndent(f, "", "  ")
}
