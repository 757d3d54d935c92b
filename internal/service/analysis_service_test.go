package service_test

import (
	"context"
	"errors"
	"strings"

	"github.com/liliang-cn/buildsense/internal/domain"
	"github.com/liliang-cn/buildsense/internal/ingest"
	"github.com/liliang-cn/buildsense/internal/repository"
	"github.com/liliang-cn/buildsense/internal/service"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AnalysisService", func() {
	var (
		ctx        context.Context
		db         *repository.DB
		remote     *fakeRemote
		analyzer   *fakeAnalyzer
		workspaces *service.WorkspaceService
		analysis   *service.AnalysisService
		wsID       string
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = repository.NewDB(repository.MemoryPath)
		Expect(err).NotTo(HaveOccurred())

		repo := repository.NewWorkspaceRepository(db)
		remote = &fakeRemote{}
		adapter := ingest.NewAdapter(remote, 0)
		analyzer = &fakeAnalyzer{result: sampleAnalysis("first")}
		workspaces = service.NewWorkspaceService(repo, adapter, nil)
		analysis = service.NewAnalysisService(workspaces, adapter, analyzer, nil)

		view, err := workspaces.Create(ctx)
		Expect(err).NotTo(HaveOccurred())
		wsID = view.ID
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	It("makes no external call without a selected document", func() {
		_, err := analysis.Run(ctx, wsID)
		Expect(err).To(MatchError(domain.ErrNoDocument))
		Expect(analyzer.callCount()).To(BeZero())
		Expect(remote.calls).To(BeZero())

		report, err := analysis.Report(ctx, wsID)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Result).To(BeNil())
		Expect(report.State).To(Equal(domain.RequestStateIdle))
	})

	It("reports unknown workspaces", func() {
		_, err := analysis.Run(ctx, "missing")
		Expect(err).To(MatchError(domain.ErrNotFound))
	})

	It("analyzes an uploaded file and keeps the result", func() {
		_, err := workspaces.SelectUpload(ctx, wsID, fileHeader("site_log.csv", []byte("day,crew\n1,12")))
		Expect(err).NotTo(HaveOccurred())

		report, err := analysis.Run(ctx, wsID)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.State).To(Equal(domain.RequestStateDone))
		Expect(report.Document).To(Equal(domain.DocumentRef{Name: "SITE_LOG.CSV"}))
		Expect(report.Result.Summary).To(Equal("first"))
		Expect(report.Result.Loops).To(HaveLen(2))

		Expect(analyzer.calls).To(HaveLen(1))
		Expect(analyzer.calls[0].fileName).To(Equal("site_log.csv"))
		Expect(analyzer.calls[0].mimeType).To(Equal(domain.MimeTypeCSV))
		Expect(string(analyzer.calls[0].content)).To(Equal("day,crew\n1,12"))
	})

	It("sends uploaded PDFs as raw bytes", func() {
		raw := []byte("%PDF-1.7\n\x00\x01\x02")
		_, err := workspaces.SelectUpload(ctx, wsID, fileHeader("plan.pdf", raw))
		Expect(err).NotTo(HaveOccurred())

		_, err = analysis.Run(ctx, wsID)
		Expect(err).NotTo(HaveOccurred())
		Expect(analyzer.calls[0].mimeType).To(Equal(domain.MimeTypePDF))
		Expect(analyzer.calls[0].content).To(Equal(raw))
	})

	It("fetches remote selections through the cloud source", func() {
		remote.doc = &domain.Document{Name: "Plan.txt", MimeType: domain.MimeTypeText, Content: []byte("M1 85%")}
		_, err := workspaces.SelectDriveFile(ctx, wsID, &domain.SelectDriveFileRequest{ID: "mock-2", Name: "Plan.txt"})
		Expect(err).NotTo(HaveOccurred())

		_, err = analysis.Run(ctx, wsID)
		Expect(err).NotTo(HaveOccurred())
		Expect(remote.calls).To(Equal(1))
		Expect(analyzer.calls[0].fileName).To(Equal("Plan.txt"))
	})

	It("keeps the previous result when a run fails", func() {
		_, err := workspaces.SelectUpload(ctx, wsID, fileHeader("report.txt", []byte("ok")))
		Expect(err).NotTo(HaveOccurred())
		_, err = analysis.Run(ctx, wsID)
		Expect(err).NotTo(HaveOccurred())

		analyzer.result = nil
		analyzer.err = errors.New("unmarshal analysis: invalid character")
		_, err = analysis.Run(ctx, wsID)
		Expect(err).To(HaveOccurred())
		Expect(service.IsUpstreamError(err)).To(BeTrue())

		report, err := analysis.Report(ctx, wsID)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.State).To(Equal(domain.RequestStateFailed))
		Expect(report.Result).NotTo(BeNil())
		Expect(report.Result.Summary).To(Equal("first"))
	})

	It("clears the result when a new document is selected", func() {
		_, err := workspaces.SelectUpload(ctx, wsID, fileHeader("report.txt", []byte("ok")))
		Expect(err).NotTo(HaveOccurred())
		_, err = analysis.Run(ctx, wsID)
		Expect(err).NotTo(HaveOccurred())

		ws, err := workspaces.SelectDriveFile(ctx, wsID, &domain.SelectDriveFileRequest{ID: "mock-1", Name: "Schedule.pdf"})
		Expect(err).NotTo(HaveOccurred())
		Expect(ws.Result).To(BeNil())
		Expect(ws.AnalysisState).To(Equal(domain.RequestStateIdle))
		Expect(ws.Selection).To(Equal(&domain.DocumentRef{Name: "SCHEDULE.PDF", ID: "mock-1"}))

		ws, err = workspaces.SelectUpload(ctx, wsID, fileHeader("other.txt", []byte("x")))
		Expect(err).NotTo(HaveOccurred())
		Expect(ws.Result).To(BeNil())
		Expect(ws.Selection.IsRemote()).To(BeFalse())
	})

	It("rejects a second run while one is pending", func() {
		_, err := workspaces.SelectUpload(ctx, wsID, fileHeader("report.txt", []byte("ok")))
		Expect(err).NotTo(HaveOccurred())

		analyzer.block = make(chan struct{})
		analyzer.started = make(chan struct{}, 1)
		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			_, err := analysis.Run(ctx, wsID)
			done <- err
		}()
		Eventually(analyzer.started).Should(Receive())

		_, err = analysis.Run(ctx, wsID)
		Expect(err).To(MatchError(domain.ErrRequestInFlight))

		report, err := analysis.Report(ctx, wsID)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.State).To(Equal(domain.RequestStatePending))

		close(analyzer.block)
		Eventually(done).Should(Receive(BeNil()))
		Expect(analyzer.callCount()).To(Equal(1))
	})

	It("drops a result that arrives after the selection changed", func() {
		_, err := workspaces.SelectUpload(ctx, wsID, fileHeader("report.txt", []byte("ok")))
		Expect(err).NotTo(HaveOccurred())

		analyzer.block = make(chan struct{})
		analyzer.started = make(chan struct{}, 1)
		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			_, err := analysis.Run(ctx, wsID)
			done <- err
		}()
		Eventually(analyzer.started).Should(Receive())

		_, err = workspaces.SelectUpload(ctx, wsID, fileHeader("newer.txt", []byte("y")))
		Expect(err).NotTo(HaveOccurred())

		close(analyzer.block)
		Eventually(done).Should(Receive(BeNil()))

		report, err := analysis.Report(ctx, wsID)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Result).To(BeNil())
		Expect(report.Document.Name).To(Equal("NEWER.TXT"))
	})

	It("drops a remote result when a local file replaces the selection", func() {
		remote.doc = &domain.Document{Name: "Remote_A.txt", MimeType: domain.MimeTypeText, Content: []byte("A")}
		_, err := workspaces.SelectDriveFile(ctx, wsID, &domain.SelectDriveFileRequest{ID: "remote-a", Name: "Remote_A.txt"})
		Expect(err).NotTo(HaveOccurred())

		analyzer.echo = true
		analyzer.block = make(chan struct{})
		analyzer.started = make(chan struct{}, 1)
		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			_, err := analysis.Run(ctx, wsID)
			done <- err
		}()
		Eventually(analyzer.started).Should(Receive())

		_, err = workspaces.SelectUpload(ctx, wsID, fileHeader("local_c.txt", []byte("C")))
		Expect(err).NotTo(HaveOccurred())

		close(analyzer.block)
		Eventually(done).Should(Receive(BeNil()))

		report, err := analysis.Report(ctx, wsID)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Document).To(Equal(domain.DocumentRef{Name: "LOCAL_C.TXT"}))
		Expect(report.Result).To(BeNil())
	})

	It("never shows a result for a document other than the selected one", func() {
		remote.doc = &domain.Document{Name: "Remote_A.txt", MimeType: domain.MimeTypeText, Content: []byte("A")}
		analyzer.echo = true

		for i := 0; i < 200; i++ {
			view, err := workspaces.Create(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = workspaces.SelectDriveFile(ctx, view.ID, &domain.SelectDriveFileRequest{ID: "remote-a", Name: "Remote_A.txt"})
			Expect(err).NotTo(HaveOccurred())
			upload := fileHeader("local_c.txt", []byte("C"))

			done := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(done)
				_, _ = analysis.Run(ctx, view.ID)
			}()
			_, err = workspaces.SelectUpload(ctx, view.ID, upload)
			Expect(err).NotTo(HaveOccurred())
			Eventually(done).Should(BeClosed())

			report, err := analysis.Report(ctx, view.ID)
			Expect(err).NotTo(HaveOccurred())
			if report.Result != nil {
				Expect(strings.EqualFold(report.Result.Summary, report.Document.Name)).To(BeTrue(),
					"result for %q shown under %q", report.Result.Summary, report.Document.Name)
			}
		}
	})

	It("fails as upstream when no analyzer is configured", func() {
		repo := repository.NewWorkspaceRepository(db)
		adapter := ingest.NewAdapter(remote, 0)
		ws := service.NewWorkspaceService(repo, adapter, nil)
		unconfigured := service.NewAnalysisService(ws, adapter, nil, nil)

		view, err := ws.Create(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = ws.SelectUpload(ctx, view.ID, fileHeader("a.txt", []byte("a")))
		Expect(err).NotTo(HaveOccurred())

		_, err = unconfigured.Run(ctx, view.ID)
		Expect(service.IsUpstreamError(err)).To(BeTrue())
	})
})
