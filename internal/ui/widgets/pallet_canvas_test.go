package widgets

import (
	"strings"
	"testing"

	"github.com/piwi3910/PalletCut/internal/model"
)

func testResults() []model.Result {
	return []model.Result{
		{Problem: model.NewProblem("Euro", 11, 8, 3, 2), Count: 14, UpperBound: 14, Optimal: true, Method: "five-block"},
		{Problem: model.NewProblem("", 29, 17, 4, 7), Count: 16, UpperBound: 17, Method: "l-block", Strategy: "dense"},
		{Problem: model.NewProblem("Half", 10, 10, 5, 5), Count: 4, UpperBound: 4, Optimal: true, Method: "five-block"},
	}
}

func TestFitScale(t *testing.T) {
	if got := fitScale(100, 50, 600, 400); got != 6 {
		t.Errorf("fitScale = %v, want 6", got)
	}
	if got := fitScale(50, 100, 600, 400); got != 4 {
		t.Errorf("fitScale = %v, want 4", got)
	}
	if got := fitScale(0, 100, 600, 400); got != 0 {
		t.Errorf("fitScale of an empty pallet = %v, want 0", got)
	}
}

func TestResultHeader(t *testing.T) {
	rs := testResults()
	h := ResultHeader(0, rs[0])
	if !strings.HasPrefix(h, "1. Euro 11 x 8, boxes 3 x 2: 14 boxes") || !strings.Contains(h, "optimal") {
		t.Errorf("unexpected header %q", h)
	}
	h = ResultHeader(1, rs[1])
	if !strings.HasPrefix(h, "2. Pallet 29 x 17") || !strings.Contains(h, "gap 1") {
		t.Errorf("unexpected header %q", h)
	}
}

func TestSummary(t *testing.T) {
	want := "Total: 3 pallets, 34 boxes, 2 proven optimal"
	if got := Summary(testResults()); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestMethodBreakdown(t *testing.T) {
	lines := MethodBreakdown(testResults())
	if len(lines) != 2 {
		t.Fatalf("expected 2 methods, got %v", lines)
	}
	if !strings.Contains(lines[0], "five-block: 2 pallet(s), 18 boxes, 2 optimal") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "l-block: 1 pallet(s), 16 boxes, 0 optimal") {
		t.Errorf("unexpected second line %q", lines[1])
	}
	if MethodBreakdown(nil) == nil || len(MethodBreakdown(nil)) != 0 {
		t.Error("no results should give an empty breakdown")
	}
}
