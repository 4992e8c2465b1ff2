package output

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
)

// Supported output formats.
const (
	FormatPNG     = "png"
	FormatSVG     = "svg"
	FormatJPG     = "jpg"
	FormatJPEG    = "jpeg"
	FormatPDF     = "pdf"
	FormatDOT     = "dot"
	FormatMermaid = "mmd"
)

var supported = []string{
	FormatPNG,
	FormatSVG,
	FormatJPG,
	FormatJPEG,
	FormatPDF,
	FormatDOT,
	FormatMermaid,
}

// Formats returns the supported output formats in display order.
func Formats() []string {
	return slices.Clone(supported)
}

// IsSupported reports whether format is a known output format.
// The comparison is exact; callers normalise case first.
func IsSupported(format string) bool {
	return slices.Contains(supported, format)
}

// Target is a resolved output location: a base path without extension and
// a lower-cased format.
type Target struct {
	Base   string
	Format string
}

// Path returns "<base>.<format>".
func (t Target) Path() string {
	return t.Base + "." + t.Format
}

// WithFormat returns a copy of t with its format replaced.
func (t Target) WithFormat(format string) Target {
	t.Format = strings.ToLower(format)
	return t
}

// Rebase returns a copy of t whose base is joined under dir.
// An empty dir leaves t unchanged.
func (t Target) Rebase(dir string) Target {
	if dir == "" {
		return t
	}
	t.Base = filepath.Join(dir, filepath.FromSlash(t.Base))
	return t
}

// Validate checks that the target can be handed to a renderer.
func (t Target) Validate() error {
	if t.Base == "" {
		return errors.New(errors.ErrCodeInvalidPath, "output path has an empty base name")
	}
	if t.Format == "" {
		return errors.New(errors.ErrCodeInvalidFormat, "output path %q has no extension", t.Base)
	}
	if !IsSupported(t.Format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q for %q (must be one of: %s)",
			t.Format, t.Base, strings.Join(supported, ", "))
	}
	return nil
}

// String returns the target path.
func (t Target) String() string {
	return t.Path()
}

// Split separates p into its base path and format. The format is the
// extension lower-cased without the leading dot, or "" when p has no
// extension. Only the final path element is inspected, so dots in directory
// names are kept in the base. Leading dots of the final element do not start
// an extension: ".hidden" and "images/.png" have none.
func Split(p string) (base, format string) {
	slashed := filepath.ToSlash(p)
	ext := path.Ext(slashed)
	if ext == "" || strings.TrimLeft(path.Base(slashed), ".") == strings.TrimPrefix(ext, ".") {
		return p, ""
	}
	return strings.TrimSuffix(p, ext), strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Resolve splits p and validates the result.
func Resolve(p string) (Target, error) {
	base, format := Split(p)
	t := Target{Base: base, Format: format}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

// MustResolve is like [Resolve] but panics on error. It is intended for
// paths declared as constants in source code.
func MustResolve(p string) Target {
	t, err := Resolve(p)
	if err != nil {
		panic(err)
	}
	return t
}
