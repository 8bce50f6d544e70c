// Package paths implements Node's path module on top of path/filepath,
// using the host platform's separator rules.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Sep and Delimiter are the platform path and PATH-list separators.
const (
	Sep       = string(filepath.Separator)
	Delimiter = string(filepath.ListSeparator)
)

// Join joins segments and normalizes the result. A zero-length result is
// ".".
func Join(segments ...string) string {
	joined := strings.Join(nonEmpty(segments), Sep)
	if joined == "" {
		return "."
	}
	return Normalize(joined)
}

// Resolve processes segments right to left until an absolute path is
// formed, prefixing the working directory if none is. The result has no
// trailing separator unless it is the root.
func Resolve(segments ...string) string {
	resolved := ""
	for i := len(segments) - 1; i >= 0; i-- {
		s := segments[i]
		if s == "" {
			continue
		}
		if resolved == "" {
			resolved = s
		} else {
			resolved = s + Sep + resolved
		}
		if filepath.IsAbs(s) {
			return filepath.Clean(resolved)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = Sep
	}
	return filepath.Clean(filepath.Join(cwd, resolved))
}

// Normalize cleans p while keeping a trailing separator, as Node does.
func Normalize(p string) string {
	if p == "" {
		return "."
	}
	trailing := strings.HasSuffix(p, "/") || strings.HasSuffix(p, Sep)
	out := filepath.Clean(p)
	if trailing && !strings.HasSuffix(out, Sep) {
		out += Sep
	}
	return out
}

// IsAbsolute reports whether p is absolute.
func IsAbsolute(p string) bool {
	return filepath.IsAbs(p)
}

// Basename returns the last element of p, ignoring trailing separators,
// with ext removed when it is a proper suffix.
func Basename(p, ext string) string {
	p = strings.TrimRight(p, "/"+Sep)
	if p == "" {
		return ""
	}
	if v := filepath.VolumeName(p); v == p {
		return ""
	}
	base := filepath.Base(p)
	if ext != "" && base != ext && strings.HasSuffix(base, ext) {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Dirname returns p without its last element.
func Dirname(p string) string {
	if p == "" {
		return "."
	}
	trimmed := strings.TrimRight(p, "/"+Sep)
	if trimmed == "" {
		return Sep
	}
	return filepath.Dir(trimmed)
}

// Extname returns the extension of the last element of p, from its last
// "." on. Names that start with their only dot have no extension.
func Extname(p string) string {
	base := Basename(p, "")
	idx := strings.LastIndex(base, ".")
	if idx <= 0 || strings.Trim(base, ".") == "" {
		return ""
	}
	return base[idx:]
}

// Relative returns the path from `from` to `to` after resolving both.
func Relative(from, to string) string {
	rel, err := filepath.Rel(Resolve(from), Resolve(to))
	if err != nil || rel == "." {
		return ""
	}
	return rel
}

// Parsed is the result of Parse.
type Parsed struct {
	Root string `json:"root"`
	Dir  string `json:"dir"`
	Base string `json:"base"`
	Ext  string `json:"ext"`
	Name string `json:"name"`
}

// Parse splits p into its components.
func Parse(p string) Parsed {
	out := Parsed{
		Base: Basename(p, ""),
		Ext:  Extname(p),
	}
	if filepath.IsAbs(p) {
		out.Root = filepath.VolumeName(p) + Sep
	}
	if strings.ContainsAny(strings.TrimRight(p, "/"+Sep), "/"+Sep) {
		out.Dir = Dirname(p)
	} else if out.Root != "" {
		out.Dir = out.Root
	}
	out.Name = strings.TrimSuffix(out.Base, out.Ext)
	return out
}

// Format is the inverse of Parse.
func Format(p Parsed) string {
	dir := p.Dir
	if dir == "" {
		dir = p.Root
	}
	base := p.Base
	if base == "" {
		base = p.Name + p.Ext
	}
	if dir == "" {
		return base
	}
	if dir == p.Root {
		return dir + base
	}
	return dir + Sep + base
}

func nonEmpty(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
