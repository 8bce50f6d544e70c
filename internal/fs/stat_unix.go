//go:build unix

package fs

import (
	iofs "io/fs"
	"syscall"
)

func fillSys(s *Stats, info iofs.FileInfo) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	s.Dev = uint64(st.Dev)
	s.Ino = uint64(st.Ino)
	s.Nlink = uint64(st.Nlink)
	s.Uid = st.Uid
	s.Gid = st.Gid
}
