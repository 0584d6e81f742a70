package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/madspace-uw/madspace/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlCatalog = `
departments:
  - code: math
    name: Mathematics
  - code: CS
    name: Computer Sciences
courses:
  - code: math  521
    name: Analysis I
    credits: 3
    description: Rigorous treatment of calculus.
  - code: CS300
    name: Programming II
  - code: "521"
    name: Missing department
  - code: CS 540
    name: ""
`

const jsonCatalog = `{
  "courses": [
    {"code": "MATH 521", "name": "Analysis I (revised)", "credits": 3},
    {"code": "PHYS 201", "name": "General Physics", "credits": -1}
  ]
}`

func TestDecodeRejectsUnknownExtension(t *testing.T) {
	_, err := Decode("catalog.txt", []byte("{}"))
	assert.Error(t, err)

	_, err = Decode("bad.json", []byte("{"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	yf, err := Decode("a.yaml", []byte(yamlCatalog))
	require.NoError(t, err)
	jf, err := Decode("b.json", []byte(jsonCatalog))
	require.NoError(t, err)

	cat := Merge(yf, jf)

	assert.Equal(t, []types.Department{
		{Code: "CS", Name: "Computer Sciences"},
		{Code: "MATH", Name: "Mathematics"},
		{Code: "PHYS", Name: "PHYS"},
	}, cat.Departments)

	require.Len(t, cat.Courses, 3)
	assert.Equal(t, "CS 300", cat.Courses[0].Code)
	assert.Equal(t, "cs300", cat.Courses[0].ID)
	assert.Equal(t, "Computer Sciences", cat.Courses[0].Department)

	math := cat.Courses[1]
	assert.Equal(t, "MATH 521", math.Code)
	assert.Equal(t, "Analysis I (revised)", math.Name, "later files win")
	assert.Equal(t, 521, math.Number)
	assert.Equal(t, "MATH", math.DepartmentCode)

	phys := cat.Courses[2]
	assert.Equal(t, 0, phys.Credits)

	assert.Len(t, cat.Warnings, 3)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-base.yaml"), []byte(yamlCatalog), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02-fixes.json"), []byte(jsonCatalog), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2026"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026", "extra.yml"), []byte("courses:\n  - code: ECON 101\n    name: Principles of Microeconomics\n"), 0644))

	cat, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Files)
	assert.Len(t, cat.Courses, 4)
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	assert.Error(t, err)
}

func TestEncodeRoundTripsThroughMerge(t *testing.T) {
	data, err := Encode(
		[]types.Department{{Code: "MATH", Name: "Mathematics"}},
		[]types.Course{{Code: "MATH 521", Name: "Analysis I", Credits: 3, Department: "Mathematics"}},
	)
	require.NoError(t, err)

	f, err := Decode("export.json", data)
	require.NoError(t, err)

	cat := Merge(f)
	require.Len(t, cat.Courses, 1)
	assert.Equal(t, "math521", cat.Courses[0].ID)
	assert.Equal(t, "Mathematics", cat.Courses[0].Department)
}
