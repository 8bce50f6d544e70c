//go:build !unix

package fs

import iofs "io/fs"

func fillSys(*Stats, iofs.FileInfo) {}
