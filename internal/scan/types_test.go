package scan

import (
	"testing"
	"time"
)

func TestParseGroups(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []TypeGroup
		wantErr bool
	}{
		{"all groups", []string{"image", "video", "archive", "other"},
			[]TypeGroup{GroupImage, GroupVideo, GroupArchive, GroupOther}, false},
		{"mixed case and whitespace", []string{" Image", "VIDEO "},
			[]TypeGroup{GroupImage, GroupVideo}, false},
		{"empty input", nil, []TypeGroup{}, false},
		{"unknown group", []string{"image", "documents"}, nil, true},
		{"empty string", []string{""}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGroups(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseGroups(%v) = nil error, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGroups(%v) = %v, want nil", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseGroups(%v) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseGroups(%v)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEffectiveRecency(t *testing.T) {
	used := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	modified := time.Date(2024, 11, 20, 8, 30, 0, 0, time.UTC)

	t.Run("last used wins when present", func(t *testing.T) {
		rec := FileRecord{LastUsedAt: used, LastModifiedAt: modified}
		if got := rec.EffectiveRecency(); !got.Equal(used) {
			t.Errorf("EffectiveRecency() = %v, want %v", got, used)
		}
	})

	t.Run("falls back to modified", func(t *testing.T) {
		rec := FileRecord{LastModifiedAt: modified}
		if got := rec.EffectiveRecency(); !got.Equal(modified) {
			t.Errorf("EffectiveRecency() = %v, want %v", got, modified)
		}
	})
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name string
		rec  FileRecord
		want bool
	}{
		{"by content type", FileRecord{Path: "/d/manual.bin", ContentType: "com.adobe.pdf"}, true},
		{"by extension", FileRecord{Path: "/d/scan.PDF", ContentType: "public.data"}, true},
		{"neither", FileRecord{Path: "/d/notes.txt", ContentType: "public.data"}, false},
		{"pdf in name only", FileRecord{Path: "/d/pdf-tips.txt", ContentType: "public.data"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.IsPDF(); got != tt.want {
				t.Errorf("IsPDF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateRunning, "running"},
		{StateCompleted, "completed"},
		{StateCancelled, "cancelled"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
