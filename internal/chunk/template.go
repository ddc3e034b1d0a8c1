package chunk

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Template describes the layout every pooled chunk is built from: its edge length
// and the ordered decor and obstacle items it carries. Mask indices map onto these
// slices positionally for the lifetime of the chunk.
type Template struct {
	Name      string   `json:"name" yaml:"name"`
	Size      int      `json:"size" yaml:"size"`
	Decor     []string `json:"decor" yaml:"decor"`
	Obstacles []string `json:"obstacles" yaml:"obstacles"`
}

// Validate satisfies storage.ValidatingSpec.
func (t *Template) Validate() error {
	el := errors.NewErrorList()

	if t.Size <= 0 {
		el.Add(fmt.Errorf("size must be a positive integer"))
	}

	for i, d := range t.Decor {
		if d == "" {
			el.Add(fmt.Errorf("decor %d: name is required", i))
		}
	}
	for i, o := range t.Obstacles {
		if o == "" {
			el.Add(fmt.Errorf("obstacle %d: name is required", i))
		}
	}

	return el.Err()
}
