package id

import (
	"errors"

	"github.com/google/uuid"
)

// NilUUID is the all-zero UUID.
const NilUUID = "00000000-0000-0000-0000-000000000000"

// Well-known namespaces for name-based UUIDs.
var (
	NamespaceDNS = uuid.NameSpaceDNS.String()
	NamespaceURL = uuid.NameSpaceURL.String()
)

// ErrInvalidUUID is returned for malformed UUID input.
var ErrInvalidUUID = errors.New("invalid UUID")

// UUIDv1 returns a time-based UUID.
func UUIDv1() (string, error) {
	u, err := uuid.NewUUID()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// UUIDv3 returns the MD5 name-based UUID of name within namespace.
func UUIDv3(name string, namespace uuid.UUID) string {
	return uuid.NewMD5(namespace, []byte(name)).String()
}

// UUIDv4 returns a random UUID.
func UUIDv4() string {
	return uuid.NewString()
}

// UUIDv5 returns the SHA-1 name-based UUID of name within namespace.
func UUIDv5(name string, namespace uuid.UUID) string {
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

// ParseNamespace accepts a namespace as UUID text or 16 raw bytes.
func ParseNamespace(text string, raw []byte) (uuid.UUID, error) {
	if raw != nil {
		u, err := uuid.FromBytes(raw)
		if err != nil {
			return uuid.Nil, ErrInvalidUUID
		}
		return u, nil
	}
	u, err := uuid.Parse(text)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return u, nil
}

// ValidateUUID reports whether s is a well-formed UUID.
func ValidateUUID(s string) bool {
	return uuid.Validate(s) == nil
}

// UUIDVersion returns the version number encoded in s.
func UUIDVersion(s string) (int, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return 0, ErrInvalidUUID
	}
	return int(u.Version()), nil
}

// StringifyUUID formats the 16 bytes of b starting at offset as a hyphenated
// UUID.
func StringifyUUID(b []byte, offset int) (string, error) {
	if offset < 0 || offset+16 > len(b) {
		return "", ErrInvalidUUID
	}
	u, err := uuid.FromBytes(b[offset : offset+16])
	if err != nil {
		return "", ErrInvalidUUID
	}
	return u.String(), nil
}
