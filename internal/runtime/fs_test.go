package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quote renders s as a JS string literal.
func quote(s string) string {
	return fmt.Sprintf("%q", filepath.ToSlash(s))
}

func TestFSReaddir(t *testing.T) {
	rt := newTestRuntime(t)

	assert.Equal(t, []interface{}{"config.toml"},
		run(t, rt, "require('fs/promises').readdir('testdata/.cargo')"))

	got := run(t, rt, `
		require('fs/promises').readdir('testdata/.cargo', { withFileTypes: true }).then((entries) => {
			const d = entries[0];
			return [entries.length, d.name, d.isFile(), d.isDirectory(), d.parentPath, Object.keys(d)];
		})
	`)
	assert.Equal(t, []interface{}{int64(1), "config.toml", true, false, "testdata/.cargo", []interface{}{"name"}}, got)

	got = run(t, rt, `
		require('fs/promises').readdir('testdata', { recursive: true })
	`)
	assert.Equal(t, []interface{}{".cargo", ".cargo/config.toml", "fixtures", "fixtures/hello.txt"}, got)

	got = run(t, rt, `
		require('fs/promises').readdir('testdata/.cargo', { encoding: 'buffer' }).then((names) => [Buffer.isBuffer(names[0]), names[0].toString()])
	`)
	assert.Equal(t, []interface{}{true, "config.toml"}, got)
}

func TestFSReadFile(t *testing.T) {
	rt := newTestRuntime(t)

	got := run(t, rt, `
		const fs = require('fs/promises');
		const file = 'testdata/fixtures/hello.txt';
		Promise.all([
			fs.readFile(file, 'utf8'),
			fs.readFile(file, { encoding: 'base64' }),
			fs.readFile(file, 'hex'),
			fs.readFile(file).then((b) => [Buffer.isBuffer(b), b.length, b.toString()]),
		])
	`)
	assert.Equal(t, []interface{}{
		"hello world!",
		"aGVsbG8gd29ybGQh",
		"68656c6c6f20776f726c6421",
		[]interface{}{true, int64(12), "hello world!"},
	}, got)
}

func TestFSMissingPathRejects(t *testing.T) {
	rt := newTestRuntime(t)

	got := run(t, rt, `
		require('fs/promises').readFile('testdata/fixtures/nothing').catch((e) =>
			[e instanceof Error, e.code, e.errno < 0, e.syscall, e.path, e.kind, e.message])
	`)
	assert.Equal(t, []interface{}{
		true, "ENOENT", true, "open", "testdata/fixtures/nothing", "NotFound",
		"ENOENT: no such file or directory, open 'testdata/fixtures/nothing'",
	}, got)

	got = run(t, rt, `
		require('fs/promises').readdir('testdata/fixtures/hello.txt').catch((e) => [e.code, e.syscall])
	`)
	assert.Equal(t, []interface{}{"ENOTDIR", "scandir"}, got)
}

func TestFSMkdtemp(t *testing.T) {
	rt := newTestRuntime(t)
	root := t.TempDir()

	got := run(t, rt, fmt.Sprintf(`
		const path = require('path');
		require('fs/promises').mkdtemp(path.join(%s, 'test-'))
	`, quote(root)))

	dir, ok := got.(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(filepath.Base(dir), "test-"))
	assert.Greater(t, len(filepath.Base(dir)), len("test-"))
	assert.DirExists(t, dir)
}

func TestFSDirectoryLifecycle(t *testing.T) {
	rt := newTestRuntime(t)
	root := t.TempDir()

	got := run(t, rt, fmt.Sprintf(`
		const fs = require('fs/promises');
		const path = require('path');
		const root = %s;
		(async () => {
			const dir = path.join(root, 'test', 'test-');
			let first;
			try {
				await fs.mkdir(dir);
			} catch (e) {
				first = e.code;
			}
			await fs.mkdir(dir, { recursive: true });

			const file = path.join(dir, 'a.txt');
			await fs.writeFile(file, 'abc');
			await fs.appendFile(file, Buffer.from('def'));
			await fs.writeFile(path.join(dir, 'b.txt'), '676869', { encoding: 'hex' });
			const text = await fs.readFile(file, 'utf8');
			const other = await fs.readFile(path.join(dir, 'b.txt'), 'utf8');
			const st = await fs.stat(file);

			let notEmpty;
			try {
				await fs.rmdir(path.join(root, 'test'));
			} catch (e) {
				notEmpty = e.code;
			}
			await fs.rmdir(path.join(root, 'test'), { recursive: true });

			let gone;
			try {
				await fs.access(path.join(root, 'test'));
			} catch (e) {
				gone = e.code;
			}
			return [first, text, other, st.size, st.isFile(), st.mtime instanceof Date, notEmpty, gone];
		})()
	`, quote(root)))

	assert.Equal(t, []interface{}{"ENOENT", "abcdef", "ghi", int64(6), true, true, "ENOTEMPTY", "ENOENT"}, got)
	assert.NoDirExists(t, filepath.Join(root, "test"))
}

func TestFSFileOperations(t *testing.T) {
	rt := newTestRuntime(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "src.txt"), []byte("data"), 0o644))

	got := run(t, rt, fmt.Sprintf(`
		const fs = require('fs/promises');
		const path = require('path');
		const root = %s;
		(async () => {
			const src = path.join(root, 'src.txt');
			await fs.copyFile(src, path.join(root, 'copy.txt'));
			let exists;
			try {
				await fs.copyFile(src, path.join(root, 'copy.txt'), fs.constants.COPYFILE_EXCL);
			} catch (e) {
				exists = [e.code, typeof e.dest];
			}
			await fs.rename(path.join(root, 'copy.txt'), path.join(root, 'moved.txt'));
			await fs.unlink(path.join(root, 'moved.txt'));
			await fs.rm(path.join(root, 'missing'), { force: true });
			return [exists, await fs.readdir(root)];
		})()
	`, quote(root)))

	assert.Equal(t, []interface{}{[]interface{}{"EEXIST", "string"}, []interface{}{"src.txt"}}, got)
}

func TestFSAccess(t *testing.T) {
	if goruntime.GOOS == "windows" {
		t.Skip("execute permission is not modelled on windows")
	}
	rt := newTestRuntime(t)
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	got := run(t, rt, fmt.Sprintf(`
		const fs = require('fs/promises');
		const file = %s;
		Promise.all([
			fs.access(file).then(() => 'ok'),
			fs.access(file, fs.constants.R_OK).then(() => 'ok'),
			fs.access(file, fs.constants.X_OK).then(() => 'ok', (e) => e.code),
		])
	`, quote(file)))
	assert.Equal(t, []interface{}{"ok", "ok", "EACCES"}, got)
}

func TestFSArgumentValidation(t *testing.T) {
	rt := newTestRuntime(t)

	tests := []struct {
		name   string
		script string
		want   []interface{}
	}{
		{"path type", "fs.readFile(123)", []interface{}{"TypeError", "ERR_INVALID_ARG_TYPE"}},
		{"null bytes", "fs.stat('a\\u0000b')", []interface{}{"TypeError", "ERR_INVALID_ARG_VALUE"}},
		{"encoding", "fs.readFile('x', 'ucs9')", []interface{}{"TypeError", "ERR_INVALID_ARG_VALUE"}},
		{"access mode", "fs.access('x', 8)", []interface{}{"RangeError", "ERR_OUT_OF_RANGE"}},
		{"write data", "fs.writeFile('x', 5)", []interface{}{"TypeError", "ERR_INVALID_ARG_TYPE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, rt, fmt.Sprintf(`
				(() => {
					const fs = require('fs/promises');
					try {
						%s;
					} catch (e) {
						return [e.name, e.code];
					}
					return 'no throw';
				})()
			`, tt.script))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFSCallbackStyle(t *testing.T) {
	rt := newTestRuntime(t)

	got := run(t, rt, `
		new Promise((resolve) => {
			require('fs').readdir('testdata/.cargo', (err, names) => resolve([err, names]));
		})
	`)
	assert.Equal(t, []interface{}{nil, []interface{}{"config.toml"}}, got)

	got = run(t, rt, `
		new Promise((resolve) => {
			require('node:fs').readFile('testdata/nothing', (err) => resolve(err.code));
		})
	`)
	assert.Equal(t, "ENOENT", got)
}

func TestFSFacadeIdentity(t *testing.T) {
	rt := newTestRuntime(t)

	got := run(t, rt, `
		const fs = require('fs');
		const promises = require('fs/promises');
		[
			fs.promises === promises,
			require('node:fs') === fs,
			require('node:fs/promises') === promises,
			fs.default === fs,
			promises.default === promises,
			fs.constants === promises.constants,
			fs.F_OK, fs.R_OK, fs.W_OK, fs.X_OK,
		]
	`)
	assert.Equal(t, []interface{}{true, true, true, true, true, true, int64(0), int64(4), int64(2), int64(1)}, got)
}

func TestRequireUnknownModule(t *testing.T) {
	rt := newTestRuntime(t)

	got := run(t, rt, `
		(() => {
			try {
				require('nope');
			} catch (e) {
				return [e.code, e.message];
			}
		})()
	`)
	assert.Equal(t, []interface{}{"MODULE_NOT_FOUND", "Cannot find module 'nope'"}, got)
}
