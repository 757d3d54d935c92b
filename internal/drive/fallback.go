package drive

import "github.com/liliang-cn/buildsense/internal/domain"

// MockFiles returns the fixed listing shown when Drive is unavailable in demo mode
func MockFiles() []domain.DriveFile {
	return []domain.DriveFile{
		{ID: "mock-1", Name: "Westside_Master_Schedule_V4.pdf", MimeType: domain.MimeTypePDF, ModifiedTime: "2024-10-12T14:30:00Z", Size: "2.4 MB"},
		{ID: "mock-2", Name: "Weekly_Progress_Report_Oct.txt", MimeType: domain.MimeTypeText, ModifiedTime: "2024-10-20T09:15:00Z", Size: "12 KB"},
		{ID: "mock-3", Name: "Site_Control_Log_2024.csv", MimeType: domain.MimeTypeCSV, ModifiedTime: "2024-10-21T16:45:00Z", Size: "450 KB"},
		{ID: "mock-4", Name: "Downtown_Heights_Structural_Review.pdf", MimeType: domain.MimeTypePDF, ModifiedTime: "2024-10-18T11:00:00Z", Size: "5.1 MB"},
	}
}

// MockReport is the simulated project status served when a download fails in demo mode
const MockReport = "SIMULATED CONSTRUCTION DATA: Project Milestone M1 (Foundation) is 85% complete. Labor shortage identified in masonry team. Material delivery for structural steel delayed by 5 days. Weather forecast indicates heavy rain next Tuesday."

// MockDocument returns the fallback document content
func MockDocument() *domain.Document {
	return &domain.Document{
		Name:     "Mock_Construction_Report.txt",
		MimeType: domain.MimeTypeText,
		Content:  []byte(MockReport),
	}
}
