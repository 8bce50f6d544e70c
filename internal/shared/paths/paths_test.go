package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("posix path expectations")
	}
}

func TestJoin(t *testing.T) {
	skipOnWindows(t)
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"/foo", "bar", "baz/asdf", "quux", ".."}, "/foo/bar/baz/asdf"},
		{[]string{"a", "", "b"}, "a/b"},
		{[]string{"", ""}, "."},
		{[]string{}, "."},
		{[]string{"a/", "b/"}, "a/b/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Join(tt.in...), "Join(%q)", tt.in)
	}
}

func TestResolve(t *testing.T) {
	skipOnWindows(t)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, "/foo/bar/baz", Resolve("/foo/bar", "./baz"))
	assert.Equal(t, "/tmp/file", Resolve("/foo/bar", "/tmp/file/"))
	assert.Equal(t, filepath.Join(cwd, "www/static_files/gif/image.gif"),
		Resolve("www", "static_files/png/", "../gif/image.gif"))
	assert.Equal(t, cwd, Resolve())
}

func TestNormalize(t *testing.T) {
	skipOnWindows(t)
	assert.Equal(t, "/foo/bar/baz/asdf", Normalize("/foo/bar//baz/asdf/quux/.."))
	assert.Equal(t, "a/", Normalize("a//"))
	assert.Equal(t, ".", Normalize(""))
	assert.Equal(t, "/", Normalize("/"))
}

func TestBasenameDirnameExtname(t *testing.T) {
	skipOnWindows(t)
	assert.Equal(t, "quux.html", Basename("/foo/bar/baz/asdf/quux.html", ""))
	assert.Equal(t, "quux", Basename("/foo/bar/baz/asdf/quux.html", ".html"))
	assert.Equal(t, "asdf", Basename("/foo/asdf/", ""))
	assert.Equal(t, ".html", Basename(".html", ".html"))
	assert.Equal(t, "", Basename("/", ""))

	assert.Equal(t, "/foo/bar/baz/asdf", Dirname("/foo/bar/baz/asdf/quux"))
	assert.Equal(t, "/foo", Dirname("/foo/bar/"))
	assert.Equal(t, ".", Dirname("file"))
	assert.Equal(t, "/", Dirname("/"))

	tests := map[string]string{
		"index.html":      ".html",
		"index.coffee.md": ".md",
		"index.":          ".",
		"index":           "",
		".index":          "",
		".index.md":       ".md",
		"..":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Extname(in), "Extname(%q)", in)
	}
}

func TestRelative(t *testing.T) {
	skipOnWindows(t)
	assert.Equal(t, "../../impl/bbb", Relative("/data/orandea/test/aaa", "/data/orandea/impl/bbb"))
	assert.Equal(t, "", Relative("/a/b", "/a/b"))
	assert.True(t, IsAbsolute("/a"))
	assert.False(t, IsAbsolute("a"))
}

func TestParseFormat(t *testing.T) {
	skipOnWindows(t)
	p := Parse("/home/user/dir/file.txt")
	assert.Equal(t, Parsed{Root: "/", Dir: "/home/user/dir", Base: "file.txt", Ext: ".txt", Name: "file"}, p)
	assert.Equal(t, "/home/user/dir/file.txt", Format(p))

	p = Parse("file.txt")
	assert.Equal(t, Parsed{Base: "file.txt", Ext: ".txt", Name: "file"}, p)
	assert.Equal(t, "file.txt", Format(p))

	assert.Equal(t, "/file.txt", Format(Parse("/file.txt")))
}
