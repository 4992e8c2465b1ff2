package render

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
)

// IconSet locates the icon image of each node category. Icons are PNG
// files named after the category, for example "sagemaker.png" or
// "iam-role.png".
type IconSet struct {
	dir string
}

// NewIconSet returns an icon set rooted at dir. The directory must exist;
// individual files are checked when a diagram uses them.
func NewIconSet(dir string) (*IconSet, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingAsset, err, "icon directory %q", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeMissingAsset, "icon directory %q is not a directory", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingAsset, err, "icon directory %q", dir)
	}
	return &IconSet{dir: abs}, nil
}

// Dir returns the absolute icon directory.
func (s *IconSet) Dir() string { return s.dir }

// FileName returns the icon file name for c.
func FileName(c diagram.Category) string { return string(c) + ".png" }

// Path returns the icon file of c. A missing file is a MISSING_ASSET error.
func (s *IconSet) Path(c diagram.Category) (string, error) {
	p := filepath.Join(s.dir, FileName(c))
	info, err := os.Stat(p)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMissingAsset, err, "icon for category %q", c)
	}
	if info.IsDir() {
		return "", errors.New(errors.ErrCodeMissingAsset, "icon for category %q is a directory: %s", c, p)
	}
	return p, nil
}

// Missing lists the categories of used whose icon file does not exist.
func (s *IconSet) Missing(used []diagram.Category) []diagram.Category {
	var out []diagram.Category
	for _, c := range used {
		if !c.HasIcon() {
			continue
		}
		if _, err := s.Path(c); err != nil {
			out = append(out, c)
		}
	}
	return out
}
