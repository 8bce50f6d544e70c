package fs

import (
	iofs "io/fs"
	"path/filepath"
	"time"
)

// EntryType is the kind of filesystem object a directory entry names.
type EntryType uint8

const (
	EntryOther EntryType = iota
	EntryFile
	EntryDirectory
	EntrySymlink
)

func (t EntryType) String() string {
	switch t {
	case EntryFile:
		return "file"
	case EntryDirectory:
		return "directory"
	case EntrySymlink:
		return "symlink"
	default:
		return "other"
	}
}

func entryTypeOf(mode iofs.FileMode) EntryType {
	switch {
	case mode&iofs.ModeSymlink != 0:
		return EntrySymlink
	case mode.IsDir():
		return EntryDirectory
	case mode.IsRegular():
		return EntryFile
	default:
		return EntryOther
	}
}

// Dirent is one entry of a directory listing. Type reflects the entry
// itself; symlinks are not followed.
type Dirent struct {
	Name       string
	ParentPath string
	Type       EntryType
	Mode       iofs.FileMode // type bits only
}

func newDirent(parent string, d iofs.DirEntry) Dirent {
	return Dirent{
		Name:       d.Name(),
		ParentPath: parent,
		Type:       entryTypeOf(d.Type()),
		Mode:       d.Type(),
	}
}

// Path joins ParentPath and Name.
func (d Dirent) Path() string {
	return filepath.Join(d.ParentPath, d.Name)
}

func (d Dirent) IsFile() bool         { return d.Type == EntryFile }
func (d Dirent) IsDirectory() bool    { return d.Type == EntryDirectory }
func (d Dirent) IsSymbolicLink() bool { return d.Type == EntrySymlink }
func (d Dirent) IsFIFO() bool         { return d.Mode&iofs.ModeNamedPipe != 0 }
func (d Dirent) IsSocket() bool       { return d.Mode&iofs.ModeSocket != 0 }
func (d Dirent) IsCharacterDevice() bool {
	return d.Mode&iofs.ModeCharDevice != 0
}
func (d Dirent) IsBlockDevice() bool {
	return d.Mode&iofs.ModeDevice != 0 && d.Mode&iofs.ModeCharDevice == 0
}

// Names returns the entry names in listing order.
func Names(entries []Dirent) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// POSIX file type bits, as reported in Stats.NodeMode.
const (
	S_IFMT   = 0o170000
	S_IFSOCK = 0o140000
	S_IFLNK  = 0o120000
	S_IFREG  = 0o100000
	S_IFBLK  = 0o060000
	S_IFDIR  = 0o040000
	S_IFCHR  = 0o020000
	S_IFIFO  = 0o010000
)

// Stats is the metadata snapshot returned by Stat and Lstat. The numeric
// identity fields are zero on platforms that do not report them.
type Stats struct {
	Size    int64
	Mode    iofs.FileMode
	ModTime time.Time

	Dev   uint64
	Ino   uint64
	Nlink uint64
	Uid   uint32
	Gid   uint32
}

func newStats(info iofs.FileInfo) *Stats {
	s := &Stats{
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		Nlink:   1,
	}
	fillSys(s, info)
	return s
}

func (s *Stats) Type() EntryType      { return entryTypeOf(s.Mode) }
func (s *Stats) IsFile() bool         { return s.Type() == EntryFile }
func (s *Stats) IsDirectory() bool    { return s.Type() == EntryDirectory }
func (s *Stats) IsSymbolicLink() bool { return s.Type() == EntrySymlink }
func (s *Stats) IsFIFO() bool         { return s.Mode&iofs.ModeNamedPipe != 0 }
func (s *Stats) IsSocket() bool       { return s.Mode&iofs.ModeSocket != 0 }
func (s *Stats) IsCharacterDevice() bool {
	return s.Mode&iofs.ModeCharDevice != 0
}
func (s *Stats) IsBlockDevice() bool {
	return s.Mode&iofs.ModeDevice != 0 && s.Mode&iofs.ModeCharDevice == 0
}

// NodeMode returns st_mode as Node reports it: type bits plus permissions.
func (s *Stats) NodeMode() uint32 {
	m := uint32(s.Mode.Perm())
	if s.Mode&iofs.ModeSetuid != 0 {
		m |= 0o4000
	}
	if s.Mode&iofs.ModeSetgid != 0 {
		m |= 0o2000
	}
	if s.Mode&iofs.ModeSticky != 0 {
		m |= 0o1000
	}

	switch {
	case s.Mode&iofs.ModeSymlink != 0:
		m |= S_IFLNK
	case s.Mode.IsDir():
		m |= S_IFDIR
	case s.Mode&iofs.ModeNamedPipe != 0:
		m |= S_IFIFO
	case s.Mode&iofs.ModeSocket != 0:
		m |= S_IFSOCK
	case s.Mode&iofs.ModeCharDevice != 0:
		m |= S_IFCHR
	case s.Mode&iofs.ModeDevice != 0:
		m |= S_IFBLK
	default:
		m |= S_IFREG
	}
	return m
}
