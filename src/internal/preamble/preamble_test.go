package preamble

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"bibfzf/src/internal/bibtex"
	"bibfzf/src/internal/sharedtree"
)

func memfs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for p, body := range files {
		assert.NilError(t, afero.WriteFile(fsys, p, []byte(body), 0o644))
	}
	return fsys
}

func TestComposeOrderAndMissingShared(t *testing.T) {
	fsys := memfs(t, map[string]string{
		"/abs/extra.bib":    "EXTRA",
		"/home/me/refs.bib": "TARGET",
	})
	res, err := Compose(fsys, Options{
		Builtin:       "BUILTIN",
		Files:         []string{"/abs/extra.bib", "shared.bib"},
		SharedPattern: sharedtree.Pattern("/tl"),
		Target:        "/home/me/refs.bib",
	})
	assert.NilError(t, err)
	assert.Equal(t, res.Text, "BUILTIN\nEXTRA\nTARGET")
	assert.Equal(t, res.TargetLine, 3)
	assert.DeepEqual(t, res.Sources, []string{"/abs/extra.bib", "/home/me/refs.bib"})
	assert.Assert(t, is.Len(res.Warnings, 1))
	assert.Assert(t, is.Contains(res.Warnings[0], "shared.bib"))
}

func TestComposeResolvesSharedNames(t *testing.T) {
	fsys := memfs(t, map[string]string{
		"/tl/2024/texmf-dist/bibtex/bib/misc/journals.bib": "@string{jacm = {J. ACM}}",
		"/refs.bib": "@article{k, journal = jacm, month = may}",
	})
	res, err := Compose(fsys, Options{
		Builtin:       Months,
		Files:         []string{"journals.bib"},
		SharedPattern: sharedtree.Pattern("/tl"),
		Target:        "/refs.bib",
	})
	assert.NilError(t, err)
	assert.Assert(t, is.Len(res.Warnings, 0))

	f, err := bibtex.Parse(res.Text)
	assert.NilError(t, err)
	assert.DeepEqual(t, f.Entries[0].Tags, []bibtex.Tag{
		{Name: "journal", Value: "J. ACM"},
		{Name: "month", Value: "May"},
	})
}

type lockedDirFs struct {
	afero.Fs
	dir string
}

func (f lockedDirFs) Open(name string) (afero.File, error) {
	if name == f.dir {
		return nil, os.ErrPermission
	}
	return f.Fs.Open(name)
}

func TestComposeUnreadableSharedDirectoryWarns(t *testing.T) {
	mem := memfs(t, map[string]string{
		"/tl/2024/texmf-dist/bibtex/bib/private/secret.bib": "@string{s = {S}}",
		"/tl/2024/texmf-dist/bibtex/bib/misc/journals.bib":  "@string{jacm = {J. ACM}}",
		"/refs.bib": "@article{k, journal = jacm}",
	})
	fsys := lockedDirFs{Fs: mem, dir: filepath.FromSlash("/tl/2024/texmf-dist/bibtex/bib/private")}
	res, err := Compose(fsys, Options{
		Files:         []string{"journals.bib", "secret.bib"},
		SharedPattern: sharedtree.Pattern("/tl"),
		Target:        "/refs.bib",
	})
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(res.Text, "J. ACM"))
	assert.Assert(t, is.Len(res.Warnings, 2))
	assert.Assert(t, is.Contains(res.Warnings[0], "private"))
	assert.Assert(t, is.Contains(res.Warnings[1], "secret.bib"))
}

func TestComposeFatalReads(t *testing.T) {
	fsys := memfs(t, map[string]string{"/refs.bib": "x"})

	_, err := Compose(fsys, Options{Files: []string{"/missing/abs.bib"}, Target: "/refs.bib"})
	assert.ErrorContains(t, err, "read preamble file")

	_, err = Compose(fsys, Options{Target: "/nope.bib"})
	assert.ErrorContains(t, err, "read bibliography")
}

func TestMonthsParse(t *testing.T) {
	f, err := bibtex.Parse(Months)
	assert.NilError(t, err)
	assert.Equal(t, len(f.Strings), 12)
	for _, m := range []string{"jan", "may", "nov", "dec"} {
		assert.Assert(t, strings.TrimSpace(f.Strings[m]) != "", m)
	}
}
