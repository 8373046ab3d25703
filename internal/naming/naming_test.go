package naming

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturncloud/examples/internal/findings"
)

func TestClassify_Directories(t *testing.T) {
	rules := NewRules([]string{"_img"})

	valid := []string{"dask", "nyc-taxi", "examples-gpu", "a1-b2", "123"}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, rules.Classify(filepath.Join("examples", name), true))
		})
	}

	invalid := []string{"Dask", "nyc_taxi", "has space", "dots.dir", "UPPER", "emoji-✓"}
	for _, name := range invalid {
		t.Run(name, func(t *testing.T) {
			f := rules.Classify(filepath.Join("examples", name), true)
			require.NotNil(t, f)
			assert.Equal(t, findings.KindStructural, f.Kind)
			assert.Contains(t, f.Message, name)
		})
	}
}

func TestClassify_AdminDirExempt(t *testing.T) {
	rules := NewRules([]string{"_img"})
	assert.Nil(t, rules.Classify("examples/dask/_img", true))

	// Admin names only exempt directories
	assert.Nil(t, NewRules(nil).Classify("examples/dask/x", true))
	assert.NotNil(t, NewRules(nil).Classify("examples/dask/_img", true))
}

func TestValidExampleName_IgnoresAdminDirs(t *testing.T) {
	assert.True(t, ValidExampleName("dask-intro"))
	assert.False(t, ValidExampleName("_img"))
	assert.True(t, NewRules([]string{"_img"}).ValidDirName("_img"))
}

func TestClassify_Files(t *testing.T) {
	rules := NewRules(nil)

	valid := []string{"README.md", "notebook.ipynb", "My-File.v2.py", "a"}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, rules.Classify(filepath.Join("examples", "dask", name), false))
		})
	}

	invalid := []string{"my_file.py", "with space.md", "paren(1).txt"}
	for _, name := range invalid {
		t.Run(name, func(t *testing.T) {
			f := rules.Classify(filepath.Join("examples", "dask", name), false)
			require.NotNil(t, f)
			assert.Contains(t, f.Message, "alphanumeric characters, dashes, and periods")
		})
	}
}

func TestCheckTree_OneFindingPerOffendingPath(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, root, "good-dir")
	mustMkdir(t, root, "Bad_Dir")
	mustMkdir(t, root, "_img")
	mustMkdir(t, root, ".saturn")
	mustWrite(t, root, "README.md")
	mustWrite(t, root, "bad_name.py")
	mustWrite(t, root, "good-dir/also_bad.py")
	mustWrite(t, root, ".saturn/saturn.json")
	mustWrite(t, root, "_img/thumbnail.png")

	got := NewRules([]string{"_img"}).CheckTree(root)

	subjects := make([]string, 0, len(got))
	for _, f := range got {
		subjects = append(subjects, f.Subject)
	}
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "Bad_Dir"),
		filepath.Join(root, "bad_name.py"),
		filepath.Join(root, "good-dir", "also_bad.py"),
	}, subjects)
}

func TestCheckTree_MissingRootIsAFinding(t *testing.T) {
	got := NewRules(nil).CheckTree(filepath.Join(t.TempDir(), "missing"))
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "Could not read")
}

func mustMkdir(t *testing.T, root, rel string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, rel), 0755))
}

func mustWrite(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}
