package llm_test

import (
	"context"
	"errors"

	"github.com/liliang-cn/buildsense/internal/domain"
	"github.com/liliang-cn/buildsense/internal/llm"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/genai"
)

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeGenerator struct {
	calls []generateCall
	text  string
	err   error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, generateCall{model: model, contents: contents, config: config})
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(f.text, genai.RoleModel)},
		},
	}, nil
}

const validAnalysis = `{
  "summary": "Foundation behind schedule.",
  "loops": [
    {"loop": "Schedule", "status": "CRITICAL", "findings": ["Steel delayed 5 days"], "recommendation": "Resequence masonry"},
    {"loop": "HSE", "status": "DEGRADED", "findings": ["Rain forecast"], "recommendation": "Cover slab"}
  ],
  "luxuryCompliance": {"mockupStatus": "PENDING", "holdPointsDetected": ["Waterproofing"], "protectionWarning": null},
  "risks": [{"description": "Labor shortage", "severity": "High", "mitigation": "Add crew"}]
}`

var _ = Describe("AnalysisContents", func() {
	It("attaches PDF content as inline binary data", func() {
		contents := llm.AnalysisContents([]byte("%PDF-1.7 binary"), "plan.pdf", domain.MimeTypePDF)

		Expect(contents).To(HaveLen(1))
		parts := contents[0].Parts
		Expect(parts).To(HaveLen(2))
		Expect(parts[0].Text).To(ContainSubstring(`"plan.pdf"`))
		Expect(parts[1].Text).To(BeEmpty())
		Expect(parts[1].InlineData).NotTo(BeNil())
		Expect(parts[1].InlineData.MIMEType).To(Equal(domain.MimeTypePDF))
		Expect(parts[1].InlineData.Data).To(Equal([]byte("%PDF-1.7 binary")))
	})

	It("inlines non-PDF content as a marked text block", func() {
		contents := llm.AnalysisContents([]byte("row1,row2"), "log.csv", domain.MimeTypeCSV)

		parts := contents[0].Parts
		Expect(parts).To(HaveLen(2))
		Expect(parts[1].InlineData).To(BeNil())
		Expect(parts[1].Text).To(Equal(llm.DataStreamMarker + "row1,row2"))
	})
})

var _ = Describe("TaskInstruction", func() {
	It("quotes the file name without escaping it", func() {
		Expect(llm.TaskInstruction(`Floor "B2" plan\rev3.pdf`)).To(Equal(
			`Perform a full 6-Loop Industrial Analysis on: "Floor "B2" plan\rev3.pdf". Detect risks and evaluate luxury standard compliance.`,
		))
	})
})

var _ = Describe("AnalysisConfig", func() {
	It("requests JSON matching the analysis schema", func() {
		cfg := llm.AnalysisConfig()
		Expect(cfg.ResponseMIMEType).To(Equal("application/json"))
		Expect(cfg.SystemInstruction.Parts[0].Text).To(Equal(llm.SystemInstruction))

		schema := cfg.ResponseSchema
		Expect(schema.Required).To(ConsistOf("summary", "loops", "luxuryCompliance", "risks"))
		Expect(schema.Properties["loops"].Items.Required).To(ConsistOf("loop", "status", "findings", "recommendation"))
		Expect(schema.Properties["luxuryCompliance"].Required).To(ConsistOf("mockupStatus", "holdPointsDetected"))
		Expect(*schema.Properties["luxuryCompliance"].Properties["protectionWarning"].Nullable).To(BeTrue())
		Expect(schema.Properties["risks"].Items.Required).To(ConsistOf("description", "severity", "mitigation"))
	})
})

var _ = Describe("Client", func() {
	var (
		gen    *fakeGenerator
		client *llm.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		gen = &fakeGenerator{}
		client = llm.New(gen, "", nil)
		ctx = context.Background()
	})

	It("defaults the model", func() {
		Expect(client.Model()).To(Equal(llm.DefaultModel))
	})

	Describe("Analyze", func() {
		It("parses a conforming response", func() {
			gen.text = validAnalysis

			analysis, err := client.Analyze(ctx, []byte("status"), "report.txt", domain.MimeTypeText)
			Expect(err).NotTo(HaveOccurred())
			Expect(analysis.Summary).To(Equal("Foundation behind schedule."))
			Expect(analysis.Loops).To(HaveLen(2))
			Expect(analysis.Loops[0].Loop).To(Equal(domain.LoopSchedule))
			Expect(analysis.CriticalLoops()).To(Equal([]domain.Loop{domain.LoopSchedule}))
			Expect(analysis.LuxuryCompliance.HoldPointsDetected).To(ConsistOf("Waterproofing"))
			Expect(analysis.LuxuryCompliance.ProtectionWarning).To(BeNil())
			Expect(analysis.Risks[0].Severity).To(Equal(domain.SeverityHigh))

			Expect(gen.calls).To(HaveLen(1))
			Expect(gen.calls[0].model).To(Equal(llm.DefaultModel))
		})

		It("fails on a non-JSON response", func() {
			gen.text = "I could not analyze this."

			analysis, err := client.Analyze(ctx, []byte("status"), "report.txt", domain.MimeTypeText)
			Expect(err).To(HaveOccurred())
			Expect(analysis).To(BeNil())
		})

		It("fails on an empty response", func() {
			gen.text = "  "

			_, err := client.Analyze(ctx, []byte("status"), "report.txt", domain.MimeTypeText)
			Expect(err).To(MatchError(ContainSubstring("empty response")))
		})

		It("wraps transport errors", func() {
			gen.err = errors.New("connection reset")

			_, err := client.Analyze(ctx, []byte("status"), "report.txt", domain.MimeTypeText)
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
		})
	})

	Describe("Respond", func() {
		It("sends only the instruction and the new message", func() {
			gen.text = "Resequence the pour."
			history := []domain.HistoryEntry{
				{Role: domain.RoleAssistant, Content: domain.WelcomeMessage},
				{Role: domain.RoleUser, Content: "earlier question"},
				{Role: domain.RoleAssistant, Content: "earlier answer"},
			}

			reply, err := client.Respond(ctx, "What is critical?", history)
			Expect(err).NotTo(HaveOccurred())
			Expect(reply).To(Equal("Resequence the pour."))

			Expect(gen.calls).To(HaveLen(1))
			call := gen.calls[0]
			Expect(call.contents).To(HaveLen(1))
			Expect(call.contents[0].Parts).To(HaveLen(1))
			Expect(call.contents[0].Parts[0].Text).To(Equal("What is critical?"))
			Expect(call.config.SystemInstruction.Parts[0].Text).To(Equal(llm.SystemInstruction))
			Expect(call.config.ResponseSchema).To(BeNil())
		})

		It("returns the null marker on an empty reply", func() {
			gen.text = ""

			reply, err := client.Respond(ctx, "hello", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(reply).To(Equal(domain.NullResponseMarker))
		})

		It("propagates errors", func() {
			gen.err = errors.New("quota exceeded")

			_, err := client.Respond(ctx, "hello", nil)
			Expect(err).To(HaveOccurred())
		})
	})
})
