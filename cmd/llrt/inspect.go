package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/imaitland/llrt/internal/encoding"
	"github.com/imaitland/llrt/internal/fs"
	"github.com/imaitland/llrt/internal/fs/promises"
)

// fileReport is one line of `llrt inspect` output.
type fileReport struct {
	Path    string    `json:"path"`
	Type    string    `json:"type,omitempty"`
	Size    int64     `json:"size"`
	Mode    string    `json:"mode,omitempty"`
	ModTime time.Time `json:"mtime"`
	MIME    string    `json:"mime,omitempty"`
	Charset string    `json:"charset,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    string    `json:"code,omitempty"`
}

func newInspectCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <path|glob>...",
		Short: "Show type, size, mode and content type of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			api := promises.New(e.engine)
			ctx := cmd.Context()

			paths, err := expandPaths(ctx, api, args)
			if err != nil {
				return err
			}
			reports := inspectPaths(ctx, api, paths)

			if asJSON {
				return printJSON(cmd.OutOrStdout(), reports)
			}
			return printReports(cmd.OutOrStdout(), reports)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	return cmd
}

// expandPaths resolves glob arguments; plain paths pass through untouched.
func expandPaths(ctx context.Context, api *promises.API, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			paths = append(paths, arg)
			continue
		}
		if !doublestar.ValidatePattern(arg) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}
		matches, err := api.Glob(ctx, arg, fs.GlobOptions{}).Await(ctx)
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

// inspectPaths stats every path concurrently and reports failures per path.
func inspectPaths(ctx context.Context, api *promises.API, paths []string) []fileReport {
	pending := make([]*promises.Promise[*fs.Stats], len(paths))
	for i, p := range paths {
		pending[i] = api.Stat(ctx, p)
	}
	settled, err := promises.AllSettled(ctx, pending...)

	reports := make([]fileReport, len(paths))
	for i, p := range paths {
		reports[i].Path = p
		if err != nil {
			reports[i].Error = err.Error()
			continue
		}
		res := settled[i]
		if res.Err != nil {
			reports[i].Error = res.Err.Error()
			var fsErr *fs.Error
			if errors.As(res.Err, &fsErr) {
				reports[i].Code = fsErr.Code
			}
			continue
		}

		st := res.Value
		reports[i].Type = st.Type().String()
		reports[i].Size = st.Size
		reports[i].Mode = st.Mode.String()
		reports[i].ModTime = st.ModTime
		if st.IsFile() {
			reports[i].MIME, reports[i].Charset = detectContent(ctx, api, p)
		}
	}
	return reports
}

// sniffLen is how much of a file MIME and charset detection look at.
const sniffLen = 4096

// detectContent returns the MIME type of a file and, for text, its charset.
// The head is read through the engine so it is logged and counted like any
// other op.
func detectContent(ctx context.Context, api *promises.API, path string) (string, string) {
	head, err := api.ReadFileHead(ctx, path, sniffLen).Await(ctx)
	if err != nil {
		return "", ""
	}
	mime, _, _ := strings.Cut(mimetype.Detect(head).String(), ";")
	if !isText(mime) {
		return mime, ""
	}
	return mime, encoding.Detect(head)
}

func isText(mime string) bool {
	return strings.HasPrefix(mime, "text/") ||
		strings.HasPrefix(mime, "application/json") ||
		strings.HasPrefix(mime, "application/xml") ||
		strings.HasPrefix(mime, "application/javascript")
}

func printReports(w io.Writer, reports []fileReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range reports {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\terror\t%s\n", r.Path, r.Error)
			continue
		}
		content := r.MIME
		if r.Charset != "" {
			content += "; charset=" + r.Charset
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Path, r.Type, humanize.Bytes(uint64(r.Size)), r.Mode, humanize.Time(r.ModTime), content)
	}
	return tw.Flush()
}
