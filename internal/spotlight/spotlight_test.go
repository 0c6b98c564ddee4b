package spotlight

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	utc := func(y int, mo time.Month, d, h, mi, s int) time.Time {
		return time.Date(y, mo, d, h, mi, s, 0, time.UTC)
	}

	tests := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		{"mdls native", "2023-01-02 03:04:05 +0000", utc(2023, 1, 2, 3, 4, 5), true},
		{"mdls with offset", "2023-06-15 10:30:00 +0530",
			time.Date(2023, 6, 15, 10, 30, 0, 0, time.FixedZone("", 5*3600+1800)), true},
		{"rfc3339", "2023-01-02T03:04:05Z", utc(2023, 1, 2, 3, 4, 5), true},
		{"iso without zone", "2023-01-02T03:04:05", utc(2023, 1, 2, 3, 4, 5), true},
		{"space separated without zone", "2023-01-02 03:04:05", utc(2023, 1, 2, 3, 4, 5), true},
		{"surrounding whitespace", "  2023-01-02 03:04:05 +0000\n", utc(2023, 1, 2, 3, 4, 5), true},
		{"null literal", "(null)", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday-ish", time.Time{}, false},
		{"date only", "2023-01-02", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTime(tt.value)
			if ok != tt.ok {
				t.Fatalf("ParseTime(%q) ok = %v, want %v", tt.value, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseRawAttrs(t *testing.T) {
	names := []string{AttrSize, AttrLastUsed, AttrContentType}

	tests := []struct {
		name string
		out  string
		want map[string]string
	}{
		{
			"all present",
			"1024\x002023-01-02 03:04:05 +0000\x00public.image",
			map[string]string{
				AttrSize:        "1024",
				AttrLastUsed:    "2023-01-02 03:04:05 +0000",
				AttrContentType: "public.image",
			},
		},
		{
			"null value omitted",
			"1024\x00(null)\x00public.image",
			map[string]string{
				AttrSize:        "1024",
				AttrContentType: "public.image",
			},
		},
		{
			"fewer values than names",
			"1024",
			map[string]string{AttrSize: "1024"},
		},
		{
			"empty output",
			"",
			map[string]string{},
		},
		{
			"values trimmed",
			" 1024 \x00\t(null)\x00 public.movie\n",
			map[string]string{
				AttrSize:        "1024",
				AttrContentType: "public.movie",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRawAttrs(tt.out, names)
			if len(got) != len(tt.want) {
				t.Fatalf("parseRawAttrs() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseRawAttrs()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestContentTypeQuery(t *testing.T) {
	q := ContentTypeQuery()

	families := []string{
		`kMDItemContentTypeTree == "public.image"`,
		`kMDItemContentTypeTree == "public.movie"`,
		`kMDItemContentTypeTree == "public.archive"`,
		`kMDItemContentTypeTree == "com.adobe.pdf"`,
		`kMDItemContentTypeTree == "public.content"`,
	}
	for _, f := range families {
		if !strings.Contains(q, f) {
			t.Errorf("query missing clause %q", f)
		}
	}

	if !strings.HasPrefix(q, "(") || !strings.HasSuffix(q, ")") {
		t.Errorf("query not parenthesized: %q", q)
	}
	if got := strings.Count(q, "||"); got != 4 {
		t.Errorf("query has %d disjunctions, want 4", got)
	}
}

func TestIsNotInstalled(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"wrapped not-found", fmt.Errorf("mdfind start: %w", exec.ErrNotFound), true},
		{"bare not-found", exec.ErrNotFound, true},
		{"other error", errors.New("exit status 1"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotInstalled(tt.err); got != tt.want {
				t.Errorf("IsNotInstalled(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
