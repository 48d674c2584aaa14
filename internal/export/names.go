package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/piwi3910/PalletCut/internal/model"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName builds a file name without extension for the i-th result of a
// batch from its label, falling back to the pallet and box sizes.
func FileName(i int, r model.Result) string {
	label := unsafeName.ReplaceAllString(r.Problem.Label, "_")
	label = strings.Trim(label, "_")
	if label == "" {
		label = fmt.Sprintf("%dx%d_%dx%d", r.Problem.Length, r.Problem.Width, r.Problem.BoxLength, r.Problem.BoxWidth)
	}
	return fmt.Sprintf("%03d_%s", i+1, label)
}
