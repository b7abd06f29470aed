package trackformat

import (
	"fmt"
	"io"

	"github.com/biogo/hts/bam"
)

// InspectAlignment reads the header of a BAM stream and returns the names
// of its reference sequences. Only the header is decoded.
func InspectAlignment(r io.Reader) ([]string, error) {
	br, err := bam.NewReader(r, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to read BAM header: %w", err)
	}
	defer br.Close()

	refs := br.Header().Refs()
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name()
	}
	return names, nil
}
