package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{RuntimePrefix, ExecutionPrefix} {
		id := gen.GenerateWithPrefix(prefix)

		if !strings.HasPrefix(id, prefix+"_") {
			t.Errorf("ID should start with '%s_', got: %s", prefix, id)
		}

		parts := strings.Split(id, "_")
		if len(parts) != 2 {
			t.Fatalf("Prefixed ID should have format 'prefix_ulid', got: %s", id)
		}
		if !IsValid(parts[1]) {
			t.Errorf("ULID part should be valid: %s", parts[1])
		}
	}
}

func TestTypedIDGeneration(t *testing.T) {
	rt := NewRuntimeID()
	exec := NewExecutionID()

	assert.True(t, strings.HasPrefix(rt.String(), "rt_"))
	assert.True(t, strings.HasPrefix(exec.String(), "exec_"))
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(NewGenerator().GenerateString())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Timestamp("not-a-ulid")
	assert.Error(t, err)
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const workers, perWorker = 8, 100

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s := gen.GenerateString()
				mu.Lock()
				seen[s] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestUUIDVersions(t *testing.T) {
	v1, err := UUIDv1()
	require.NoError(t, err)

	tests := []struct {
		name    string
		value   string
		version int
	}{
		{"v1", v1, 1},
		{"v3", UUIDv3("example.com", uuid.NameSpaceDNS), 3},
		{"v4", UUIDv4(), 4},
		{"v5", UUIDv5("example.com", uuid.NameSpaceDNS), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ValidateUUID(tt.value))
			got, err := UUIDVersion(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.version, got)
		})
	}
}

func TestNameBasedUUIDsAreDeterministic(t *testing.T) {
	// Reference values from RFC 4122 implementations.
	assert.Equal(t, "9073926b-929f-31c2-abc9-fad77ae3e8eb", UUIDv3("example.com", uuid.NameSpaceDNS))
	assert.Equal(t, "cfbff0d1-9375-5685-968c-48ce8b15ae17", UUIDv5("example.com", uuid.NameSpaceDNS))
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", NamespaceDNS)
	assert.Equal(t, "6ba7b811-9dad-11d1-80b4-00c04fd430c8", NamespaceURL)
}

func TestValidateAndVersion(t *testing.T) {
	assert.True(t, ValidateUUID(NilUUID))
	assert.False(t, ValidateUUID("not-a-uuid"))

	v, err := UUIDVersion(NilUUID)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	_, err = UUIDVersion("nope")
	assert.ErrorIs(t, err, ErrInvalidUUID)
}

func TestStringifyUUID(t *testing.T) {
	raw := make([]byte, 18)
	for i := range raw {
		raw[i] = byte(i)
	}

	s, err := StringifyUUID(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, "00010203-0405-0607-0809-0a0b0c0d0e0f", s)

	s, err = StringifyUUID(raw, 2)
	require.NoError(t, err)
	assert.Equal(t, "02030405-0607-0809-0a0b-0c0d0e0f1011", s)

	_, err = StringifyUUID(raw, 3)
	assert.ErrorIs(t, err, ErrInvalidUUID)
}

func TestParseNamespace(t *testing.T) {
	u, err := ParseNamespace(NamespaceURL, nil)
	require.NoError(t, err)
	assert.Equal(t, uuid.NameSpaceURL, u)

	u, err = ParseNamespace("", uuid.NameSpaceDNS[:])
	require.NoError(t, err)
	assert.Equal(t, uuid.NameSpaceDNS, u)

	_, err = ParseNamespace("bogus", nil)
	assert.ErrorIs(t, err, ErrInvalidUUID)
}

func BenchmarkGenerateWithPrefix(b *testing.B) {
	gen := NewGenerator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.GenerateWithPrefix(RuntimePrefix)
	}
}
