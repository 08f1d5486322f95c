package model

// ReplayResult is the output of running a scripted event sequence.
type ReplayResult struct {
	OK        bool         `yaml:"ok"              json:"ok"`
	Action    string       `yaml:"action"          json:"action"`
	Steps     int          `yaml:"steps"           json:"steps"`
	Completed int          `yaml:"completed"       json:"completed"`
	Frames    int          `yaml:"frames"          json:"frames"`
	Error     string       `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []StepResult `yaml:"results"         json:"results"`
	Windows   []Window     `yaml:"windows"         json:"windows"`
}

// StepResult is the output for a single replay step.
type StepResult struct {
	Step     int         `yaml:"step"               json:"step"`
	OK       bool        `yaml:"ok"                 json:"ok"`
	Action   string      `yaml:"action"             json:"action"`
	Error    string      `yaml:"error,omitempty"    json:"error,omitempty"`
	Window   int         `yaml:"window,omitempty"   json:"window,omitempty"`
	Frames   int         `yaml:"frames,omitempty"   json:"frames,omitempty"`
	Moves    int         `yaml:"moves,omitempty"    json:"moves,omitempty"`
	Redrawn  []int       `yaml:"redrawn,omitempty"  json:"redrawn,omitempty"`
	Velocity *[2]float64 `yaml:"velocity,omitempty" json:"velocity,omitempty"`
}
