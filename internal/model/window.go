package model

// Window is the output view of a tracked window.
type Window struct {
	ID       int        `yaml:"id"               json:"id"`
	Phase    string     `yaml:"phase"            json:"phase"`
	Bounds   [4]int     `yaml:"bounds"           json:"bounds"` // [x, y, width, height]
	Velocity [2]float64 `yaml:"velocity"         json:"velocity"`
	Moving   bool       `yaml:"moving,omitempty" json:"moving,omitempty"`
}
