package scan

import (
	"path/filepath"
	"strings"
)

// Extension fallback sets per group. Used only when the index content type
// matches no known family.
var (
	imageExts = map[string]struct{}{
		".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".tif": {}, ".tiff": {},
		".heic": {}, ".heif": {}, ".webp": {}, ".bmp": {}, ".raw": {},
	}
	videoExts = map[string]struct{}{
		".mp4": {}, ".mov": {}, ".m4v": {}, ".avi": {}, ".mkv": {}, ".hevc": {},
	}
	archiveExts = map[string]struct{}{
		".zip": {}, ".rar": {}, ".7z": {}, ".tar": {}, ".gz": {}, ".bz2": {},
		".xz": {}, ".dmg": {}, ".iso": {},
	}
)

// InferGroup classifies a path into a TypeGroup. The content type wins
// when it names a known family; the extension is only a fallback.
func InferGroup(path, contentType string) TypeGroup {
	uti := strings.ToLower(contentType)

	switch {
	case strings.Contains(uti, "public.image"):
		return GroupImage
	case strings.Contains(uti, "public.movie"):
		return GroupVideo
	case strings.Contains(uti, "archive"):
		return GroupArchive
	case strings.Contains(uti, "pdf"), strings.Contains(uti, "public.content"):
		return GroupOther
	}

	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := imageExts[ext]; ok {
		return GroupImage
	}
	if _, ok := videoExts[ext]; ok {
		return GroupVideo
	}
	if _, ok := archiveExts[ext]; ok {
		return GroupArchive
	}
	return GroupOther
}
