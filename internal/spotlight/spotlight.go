// Package spotlight wraps the macOS metadata tools (mdfind, mdls) behind
// cancellable, streaming calls. It knows nothing about scan policy; callers
// decide what to query and what to do with each hit.
package spotlight

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Metadata attribute names used by the scanner
const (
	AttrSize        = "kMDItemFSSize"
	AttrLastUsed    = "kMDItemLastUsedDate"
	AttrContentType = "kMDItemContentType"
)

// termGrace is how long a query process gets to exit after SIGTERM before
// it is killed.
const termGrace = 2 * time.Second

// ContentTypeQuery returns the index query selecting the content-type
// families the scanner considers: images, videos, archives, PDFs, and
// generic content documents.
func ContentTypeQuery() string {
	return `(kMDItemContentTypeTree == "public.image" || ` +
		`kMDItemContentTypeTree == "public.movie" || ` +
		`kMDItemContentTypeTree == "public.archive" || ` +
		`kMDItemContentTypeTree == "com.adobe.pdf" || ` +
		`kMDItemContentTypeTree == "public.content")`
}

// Available reports whether the Spotlight query tool is installed
func Available() bool {
	_, err := exec.LookPath("mdfind")
	return err == nil
}

// IsNotInstalled reports whether err means the metadata tools are missing
// entirely, as opposed to a single query failing.
func IsNotInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

// Find runs "mdfind -onlyin root query" and streams each matching path to
// emit as it arrives; it never buffers the full result set, so the first
// match reaches the caller while the query is still running. emit returning
// false stops the query early. Cancellation or early stop terminates the
// subprocess (SIGTERM, then SIGKILL after a grace period); no process or
// pipe survives this call on any path.
func Find(ctx context.Context, root, query string, emit func(path string) bool) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "mdfind", "-onlyin", root, query)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = termGrace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("mdfind pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("mdfind start: %w", err)
	}

	stopped := false
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			stopped = true
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !emit(line) {
			stopped = true
			break
		}
	}
	readErr := scanner.Err()

	if stopped {
		// Stop the producer so Wait cannot block on a full pipe.
		cancel()
	}
	waitErr := cmd.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if stopped {
		return nil
	}
	if readErr != nil {
		return fmt.Errorf("mdfind read: %w", readErr)
	}
	if waitErr != nil {
		return fmt.Errorf("mdfind: %w", waitErr)
	}
	return nil
}

// RawAttrs fetches raw metadata values for one path in a single mdls
// invocation. Values come back NUL-separated in the order requested; an
// attribute the index does not carry is reported as "(null)" and omitted
// from the returned map, so absence is distinguishable from a lookup error.
func RawAttrs(ctx context.Context, path string, names ...string) (map[string]string, error) {
	args := make([]string, 0, 2*len(names)+2)
	args = append(args, "-raw")
	for _, name := range names {
		args = append(args, "-name", name)
	}
	args = append(args, path)

	out, err := exec.CommandContext(ctx, "mdls", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("mdls %s: %w", path, err)
	}

	return parseRawAttrs(string(out), names), nil
}

func parseRawAttrs(out string, names []string) map[string]string {
	values := strings.Split(out, "\x00")
	attrs := make(map[string]string, len(names))
	for i, name := range names {
		if i >= len(values) {
			break
		}
		value := strings.TrimSpace(values[i])
		if value == "" || value == "(null)" {
			continue
		}
		attrs[name] = value
	}
	return attrs
}

// mdls prints dates like "2023-01-02 03:04:05 +0000"; ISO forms show up in
// some locales and older index entries.
var timeLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTime parses an mdls datetime into local time. A value that matches
// no known layout reports ok=false; callers treat that as absent, never as
// a failure.
func ParseTime(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Local(), true
		}
	}
	return time.Time{}, false
}
