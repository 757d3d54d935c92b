package llm

import (
	"github.com/liliang-cn/buildsense/internal/domain"
	"google.golang.org/genai"
)

// ResponseSchema declares the structured output expected from an analysis call
func ResponseSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	strList := func() *genai.Schema { return &genai.Schema{Type: genai.TypeArray, Items: str()} }

	loopNames := make([]string, len(domain.Loops))
	for i, l := range domain.Loops {
		loopNames[i] = string(l)
	}

	loop := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"loop": {Type: genai.TypeString, Enum: loopNames},
			"status": {Type: genai.TypeString, Enum: []string{
				string(domain.LoopStatusOptimal),
				string(domain.LoopStatusDegraded),
				string(domain.LoopStatusCritical),
			}},
			"findings":       strList(),
			"recommendation": str(),
		},
		Required: []string{"loop", "status", "findings", "recommendation"},
	}

	compliance := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"mockupStatus":       str(),
			"holdPointsDetected": strList(),
			"protectionWarning":  {Type: genai.TypeString, Nullable: genai.Ptr(true)},
		},
		Required: []string{"mockupStatus", "holdPointsDetected"},
	}

	risk := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"description": str(),
			"severity": {Type: genai.TypeString, Enum: []string{
				string(domain.SeverityHigh),
				string(domain.SeverityMedium),
				string(domain.SeverityLow),
			}},
			"mitigation": str(),
		},
		Required: []string{"description", "severity", "mitigation"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":          str(),
			"loops":            {Type: genai.TypeArray, Items: loop},
			"luxuryCompliance": compliance,
			"risks":            {Type: genai.TypeArray, Items: risk},
		},
		Required: []string{"summary", "loops", "luxuryCompliance", "risks"},
	}
}
