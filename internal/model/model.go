package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Problem is one pallet loading instance: an L x W pallet to be filled with
// as many l x w boxes as possible. Boxes may be turned by 90 degrees.
type Problem struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Length    int    `json:"length"`     // L, pallet
	Width     int    `json:"width"`      // W, pallet
	BoxLength int    `json:"box_length"` // l
	BoxWidth  int    `json:"box_width"`  // w
	Depth     int    `json:"depth"`      // Five-Block depth limit, 0 = unbounded
}

func NewProblem(label string, L, W, l, w int) Problem {
	return Problem{
		ID:        uuid.New().String()[:8],
		Label:     label,
		Length:    L,
		Width:     W,
		BoxLength: l,
		BoxWidth:  w,
	}
}

// String formats the instance as "LxW/lxw".
func (p Problem) String() string {
	return fmt.Sprintf("%dx%d/%dx%d", p.Length, p.Width, p.BoxLength, p.BoxWidth)
}

// Box is a placed box in pallet coordinates, the lower left corner at
// (X1, Y1). Rotated means the box lies with its w side along the pallet
// length.
type Box struct {
	X1      int  `json:"x1"`
	Y1      int  `json:"y1"`
	X2      int  `json:"x2"`
	Y2      int  `json:"y2"`
	Rotated bool `json:"rotated"`
}

// Width returns the extent along the pallet length.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height returns the extent along the pallet width.
func (b Box) Height() int { return b.Y2 - b.Y1 }

func (b Box) Area() int { return b.Width() * b.Height() }

// Overlaps reports whether the interiors of b and o intersect.
func (b Box) Overlaps(o Box) bool {
	return b.X1 < o.X2 && o.X1 < b.X2 && b.Y1 < o.Y2 && o.Y1 < b.Y2
}

// Result holds the solution of one Problem.
type Result struct {
	Problem    Problem       `json:"problem"`
	Count      int           `json:"count"`
	UpperBound int           `json:"upper_bound"`
	Optimal    bool          `json:"optimal"`
	Method     string        `json:"method"`             // "five-block" or "l-block"
	Strategy   string        `json:"strategy,omitempty"` // L-Block memo layout, if it ran
	Boxes      []Box         `json:"boxes"`
	Elapsed    time.Duration `json:"elapsed"`
}

// UsedArea returns the total area covered by boxes.
func (r Result) UsedArea() int {
	total := 0
	for _, b := range r.Boxes {
		total += b.Area()
	}
	return total
}

// TotalArea returns the pallet area.
func (r Result) TotalArea() int {
	return r.Problem.Length * r.Problem.Width
}

// Efficiency returns the usage percentage.
func (r Result) Efficiency() float64 {
	ta := r.TotalArea()
	if ta == 0 {
		return 0
	}
	return float64(r.UsedArea()) / float64(ta) * 100.0
}

// Gap returns how many boxes the upper bound leaves open.
func (r Result) Gap() int { return r.UpperBound - r.Count }

// CutSettings holds solver defaults and the CNC configuration used when a
// layout is cut out of a slip sheet.
type CutSettings struct {
	// Solver settings
	Depth          int `json:"depth"`            // Five-Block depth limit, 0 = unbounded
	MemoryBudgetMB int `json:"memory_budget_mb"` // L-Block memo budget

	// CNC / GCode settings
	ToolDiameter float64 `json:"tool_diameter"` // End mill diameter in mm
	FeedRate     float64 `json:"feed_rate"`     // Cutting feed rate mm/min
	PlungeRate   float64 `json:"plunge_rate"`   // Plunge feed rate mm/min
	SpindleSpeed int     `json:"spindle_speed"` // RPM
	SafeZ        float64 `json:"safe_z"`        // Safe retract height mm
	CutDepth     float64 `json:"cut_depth"`     // Total material thickness mm
	PassDepth    float64 `json:"pass_depth"`    // Depth per pass mm
	Scale        float64 `json:"scale"`         // mm per pallet unit

	// Box holding tabs
	TabWidth    float64 `json:"tab_width"`     // mm
	TabHeight   float64 `json:"tab_height"`    // mm
	TabsPerSide int     `json:"tabs_per_side"` // 0 disables tabs
	UseClimb    bool    `json:"use_climb"`

	GCodeProfile string `json:"gcode_profile"`
}

func DefaultSettings() CutSettings {
	return CutSettings{
		Depth:          0,
		MemoryBudgetMB: 512,
		ToolDiameter:   6.0,
		FeedRate:       1500.0,
		PlungeRate:     500.0,
		SpindleSpeed:   18000,
		SafeZ:          5.0,
		CutDepth:       4.0,
		PassDepth:      2.0,
		Scale:          1.0,
		TabWidth:       8.0,
		TabHeight:      1.0,
		TabsPerSide:    0,
		UseClimb:       true,
		GCodeProfile:   "Generic",
	}
}

// MemoryBudget returns the memo budget in bytes.
func (s CutSettings) MemoryBudget() int64 {
	return int64(s.MemoryBudgetMB) << 20
}

// Project ties everything together for save/load.
type Project struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Problems []Problem   `json:"problems"`
	Settings CutSettings `json:"settings"`
	Results  []Result    `json:"results,omitempty"`
}

func NewProject() Project {
	return Project{
		ID:       uuid.New().String(),
		Name:     "Untitled",
		Problems: []Problem{},
		Settings: DefaultSettings(),
	}
}

// ResultFor returns the stored result of the problem with the given id.
func (p Project) ResultFor(id string) (Result, bool) {
	for _, r := range p.Results {
		if r.Problem.ID == id {
			return r, true
		}
	}
	return Result{}, false
}

// SetResult stores r, replacing an earlier result of the same problem.
func (p *Project) SetResult(r Result) {
	for i := range p.Results {
		if p.Results[i].Problem.ID == r.Problem.ID {
			p.Results[i] = r
			return
		}
	}
	p.Results = append(p.Results, r)
}
