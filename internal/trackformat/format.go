// Package trackformat classifies data files into igv.js track formats by
// file extension.
package trackformat

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the closed set of track kinds the generator knows how to emit.
type Kind int

const (
	Unsupported Kind = iota
	Bigwig
	Alignment
)

// ErrUnsupportedExtension is matched by every *UnsupportedExtensionError.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// UnsupportedExtensionError reports a file whose extension has no Kind.
type UnsupportedExtensionError struct {
	FileName  string
	Extension string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unknown file extension %q for file %q", e.Extension, e.FileName)
}

// Is lets errors.Is match ErrUnsupportedExtension.
func (e *UnsupportedExtensionError) Is(target error) bool {
	return target == ErrUnsupportedExtension
}

// Format is the igv.js "format" value for the kind.
func (k Kind) Format() string {
	switch k {
	case Bigwig:
		return "bigwig"
	case Alignment:
		return "bam"
	default:
		return ""
	}
}

// TrackType is the igv.js "type" value for the kind.
func (k Kind) TrackType() string {
	switch k {
	case Bigwig:
		return "wig"
	case Alignment:
		return "alignment"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case Bigwig:
		return "bigwig"
	case Alignment:
		return "alignment"
	default:
		return "unsupported"
	}
}

// Classify maps a file name to its Kind. Extensions are case sensitive.
func Classify(fileName string) (Kind, error) {
	ext := Extension(fileName)
	switch ext {
	case "bw":
		return Bigwig, nil
	case "bam":
		return Alignment, nil
	default:
		return Unsupported, &UnsupportedExtensionError{FileName: fileName, Extension: ext}
	}
}

// Extension returns the extension of the base name without the dot.
// Leading dots do not start an extension, so ".bw" has none.
func Extension(fileName string) string {
	base := strings.TrimLeft(filepath.Base(fileName), ".")
	return strings.TrimPrefix(filepath.Ext(base), ".")
}
