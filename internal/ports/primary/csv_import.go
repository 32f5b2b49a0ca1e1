package primary

import "io"

// CSVImportRequest is a spreadsheet upload for one engagement.
type CSVImportRequest struct {
	EngagementID string
	Source       io.Reader
	// ReplaceAll clears the existing rows once the file has been read.
	ReplaceAll bool
}

// CSVImportResult counts imported and rejected rows. Errors name the CSV
// line of each rejected row.
type CSVImportResult struct {
	Imported int
	Failed   int
	Errors   []string
}
