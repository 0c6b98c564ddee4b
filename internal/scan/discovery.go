package scan

import (
	"context"
	"os"

	"github.com/ketan18710/clean-my-mac/internal/spotlight"
)

// SpotlightSource discovers candidate paths through the Spotlight index.
// Each Discover call issues a fresh scoped query; results stream through
// emit as the index returns them.
type SpotlightSource struct {
	query string
	stat  func(string) (os.FileInfo, error)
}

// NewSpotlightSource returns a source querying the standard content-type
// families.
func NewSpotlightSource() *SpotlightSource {
	return &SpotlightSource{
		query: spotlight.ContentTypeQuery(),
		stat:  os.Stat,
	}
}

// Discover streams candidate paths under root. The index can lag the
// filesystem, so paths that no longer exist at enumeration time are skipped
// here rather than surfacing later as resolution failures. An error means
// discovery itself failed; zero emissions with a nil error means the root
// legitimately had no matches.
func (s *SpotlightSource) Discover(ctx context.Context, root string, emit func(path string) bool) error {
	return spotlight.Find(ctx, root, s.query, func(path string) bool {
		if _, err := s.stat(path); err != nil {
			return true
		}
		return emit(path)
	})
}
