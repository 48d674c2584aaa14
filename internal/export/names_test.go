package export

import (
	"testing"

	"github.com/piwi3910/PalletCut/internal/model"
)

func TestFileName(t *testing.T) {
	r := model.Result{Problem: model.NewProblem("Euro pallet / 4x7", 29, 17, 4, 7)}
	if got := FileName(0, r); got != "001_Euro_pallet_4x7" {
		t.Errorf("FileName = %q", got)
	}
	r.Problem.Label = ""
	if got := FileName(11, r); got != "012_29x17_4x7" {
		t.Errorf("FileName = %q", got)
	}
}
