package domain

// Loop is one of the six fixed analysis categories
type Loop string

const (
	LoopScope       Loop = "Scope"
	LoopQuality     Loop = "Quality"
	LoopSchedule    Loop = "Schedule"
	LoopCost        Loop = "Cost"
	LoopProcurement Loop = "Procurement"
	LoopHSE         Loop = "HSE"
)

// Loops lists the control loops in canonical order
var Loops = []Loop{LoopScope, LoopQuality, LoopSchedule, LoopCost, LoopProcurement, LoopHSE}

// LoopStatus is the health reported for a control loop
type LoopStatus string

const (
	LoopStatusOptimal  LoopStatus = "OPTIMAL"
	LoopStatusDegraded LoopStatus = "DEGRADED"
	LoopStatusCritical LoopStatus = "CRITICAL"
)

// Severity grades a detected risk
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// ControlLoopFinding holds the findings for one loop
type ControlLoopFinding struct {
	Loop           Loop       `json:"loop"`
	Status         LoopStatus `json:"status"`
	Findings       []string   `json:"findings"`
	Recommendation string     `json:"recommendation"`
}

// LuxuryCompliance reports mock-up and hold point compliance
type LuxuryCompliance struct {
	MockupStatus       string   `json:"mockupStatus"`
	HoldPointsDetected []string `json:"holdPointsDetected"`
	ProtectionWarning  *string  `json:"protectionWarning"`
}

// Risk is a single risk entry of an analysis
type Risk struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Mitigation  string   `json:"mitigation"`
}

// DetailedAnalysis is the structured result of a 6-loop analysis
type DetailedAnalysis struct {
	Summary          string               `json:"summary"`
	Loops            []ControlLoopFinding `json:"loops"`
	LuxuryCompliance LuxuryCompliance     `json:"luxuryCompliance"`
	Risks            []Risk               `json:"risks"`
}

// Finding returns the finding reported for loop, if any
func (a *DetailedAnalysis) Finding(loop Loop) (ControlLoopFinding, bool) {
	for _, f := range a.Loops {
		if f.Loop == loop {
			return f, true
		}
	}
	return ControlLoopFinding{}, false
}

// CriticalLoops returns the loops reported as CRITICAL
func (a *DetailedAnalysis) CriticalLoops() []Loop {
	var loops []Loop
	for _, f := range a.Loops {
		if f.Status == LoopStatusCritical {
			loops = append(loops, f.Loop)
		}
	}
	return loops
}
