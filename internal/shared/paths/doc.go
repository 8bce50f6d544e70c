// Package paths provides the path helpers exposed to scripts as
// require("path").
//
// # Usage
//
//	paths.Join("a", "b", "../c")        // a/c
//	paths.Basename("/tmp/x.txt", ".txt") // x
//	paths.Extname("index.coffee.md")     // .md
//	paths.Resolve("/foo/bar", "./baz")   // /foo/bar/baz
package paths
