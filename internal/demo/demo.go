// Package demo provides a self-contained in-memory Drive dataset so the
// portal can run and be explored without Google credentials.
package demo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xparky/portal/internal/adapters/drive"
)

// pngPixel is a 1x1 transparent PNG served for every demo certificate.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// Dataset is a fixed classroom, evaluation, roster, and certificate corpus
// behind the drive source interfaces. Identifiers are generated fresh per
// dataset; the content never changes after construction.
type Dataset struct {
	classroomFolderID    string
	evalFormsFolderID    string
	certificatesFolderID string
	rosterSpreadsheetID  string

	listings map[string][]drive.Entry
	sheets   map[string]*drive.Table
	images   map[string][]byte
}

// NewDataset builds the demo corpus.
func NewDataset() *Dataset {
	d := &Dataset{
		listings: make(map[string][]drive.Entry),
		sheets:   make(map[string]*drive.Table),
		images:   make(map[string][]byte),
	}

	d.populateRoster()
	d.populateClassroom()
	d.populateEvaluations()
	d.populateCertificates()
	return d
}

// ClassroomFolderID returns the classroom submissions root.
func (d *Dataset) ClassroomFolderID() string { return d.classroomFolderID }

// EvalFormsFolderID returns the evaluation forms folder.
func (d *Dataset) EvalFormsFolderID() string { return d.evalFormsFolderID }

// CertificatesFolderID returns the certificates root.
func (d *Dataset) CertificatesFolderID() string { return d.certificatesFolderID }

// RosterSpreadsheetID returns the roster spreadsheet.
func (d *Dataset) RosterSpreadsheetID() string { return d.rosterSpreadsheetID }

// ListChildren returns the immediate children of a demo folder.
func (d *Dataset) ListChildren(_ context.Context, folderID string) ([]drive.Entry, error) {
	children, ok := d.listings[folderID]
	if !ok {
		return nil, fmt.Errorf("%w: folder %q", drive.ErrNotFound, folderID)
	}
	return children, nil
}

// SheetValues returns a demo spreadsheet's table. Every demo spreadsheet
// has a single tab, so the sheet name is not consulted.
func (d *Dataset) SheetValues(_ context.Context, spreadsheetID, _ string) (*drive.Table, error) {
	table, ok := d.sheets[spreadsheetID]
	if !ok {
		return nil, fmt.Errorf("%w: spreadsheet %q", drive.ErrNotFound, spreadsheetID)
	}
	return table, nil
}

// Download returns a demo certificate image.
func (d *Dataset) Download(_ context.Context, fileID string) ([]byte, error) {
	img, ok := d.images[fileID]
	if !ok {
		return nil, fmt.Errorf("%w: file %q", drive.ErrNotFound, fileID)
	}
	return img, nil
}

// addFolder registers a folder under parent and returns its id. The empty
// parent creates a root.
func (d *Dataset) addFolder(parentID, name string) string {
	id := uuid.New().String()
	if parentID != "" {
		d.listings[parentID] = append(d.listings[parentID], drive.Entry{ID: id, Name: name, Folder: true})
	}
	d.listings[id] = nil
	return id
}

// addFile registers a plain file under parent and returns its id.
func (d *Dataset) addFile(parentID, name string) string {
	id := uuid.New().String()
	d.listings[parentID] = append(d.listings[parentID], drive.Entry{ID: id, Name: name})
	return id
}

// addSheet registers a spreadsheet file with its table.
func (d *Dataset) addSheet(parentID, name string, table *drive.Table) string {
	id := d.addFile(parentID, name)
	d.sheets[id] = table
	return id
}

// addImage registers an image file backed by the demo pixel.
func (d *Dataset) addImage(parentID, name string) string {
	id := d.addFile(parentID, name)
	d.images[id] = pngPixel
	return id
}

func (d *Dataset) populateRoster() {
	d.rosterSpreadsheetID = uuid.New().String()
	d.sheets[d.rosterSpreadsheetID] = &drive.Table{
		Columns: []string{"Student Number", "First Name", "Last Name", "Position"},
		Rows: [][]string{
			{"2021-00101", "Jane", "Doe", "Data and ML Cadet"},
			{"2021-00102", "John", "Smith", "Data and ML Cadet"},
			{"2021-00103", "Maria", "Cruz", "Data and ML Cadet"},
			{"2021-00104", "Alex", "Reyes", "Data and ML Cadet"},
			{"2021-00105", "Sam", "Garcia", "Data and ML Cadet"},
			{"2021-00106", "Dana", "Santos", "Data and ML Cadet"},
			{"2021-00107", "Lee", "Tan", "Data and ML Cadet"},
			{"2021-00108", "Kim", "Lopez", "Data and ML Cadet"},
			{"2021-00999", "Pat", "Rivera", "Events Officer"},
		},
	}
}

func (d *Dataset) populateClassroom() {
	d.classroomFolderID = d.addFolder("", "Classroom Submissions")

	week1 := d.addFolder(d.classroomFolderID, "Week 1 Submissions")
	d.addFile(week1, "2021-00101_CERTIFICATE_intro.png")
	d.addFile(week1, "2021-00102_BADGE.png")
	d.addFile(week1, "2021-00103_notes.txt")

	week2 := d.addFolder(d.classroomFolderID, "Week 2 Submissions")
	d.addFile(week2, "2021-00101_BADGE_week2.png")
	d.addFile(week2, "2021-00104_CERTIFICATE.pdf")

	finals := d.addFolder(d.classroomFolderID, "Final Projects")
	d.addFile(finals, "2021-00101_PROJECT_final.zip")
	d.addFile(finals, "2021-00102_PROJECT.zip")
	d.addFile(finals, "2021-00105_PROJECT_v2.zip")

	// Lives under the classroom root but is reserved for the evaluation
	// rule; the file inside must never score.
	reserved := d.addFolder(d.classroomFolderID, "evaluationForms")
	d.addFile(reserved, "2021-00108_PROJECT.zip")
}

func (d *Dataset) populateEvaluations() {
	d.evalFormsFolderID = d.addFolder("", "Evaluation Forms")

	d.addSheet(d.evalFormsFolderID, "onboardingEvaluation (Responses)", &drive.Table{
		Columns: []string{"Timestamp", "Student Number", "Rating"},
		Rows: [][]string{
			{"2025-01-10 09:00", "2021-00101", "5"},
			{"2025-01-10 09:05", "2021-00102", "4"},
			{"2025-01-10 09:11", "2021-00103", "5"},
			{"2025-01-10 09:12", "2021-00104", "5"},
			{"2025-01-10 09:20", "2021-00105", "3"},
			{"2025-01-10 09:22", "2021-00106", "4"},
		},
	})

	d.addSheet(d.evalFormsFolderID, "Week 2 Evaluation (Responses)", &drive.Table{
		Columns: []string{"Timestamp", "Student Number", "Rating"},
		Rows: [][]string{
			{"2025-01-24 18:00", "2021-00101", "5"},
			{"2025-01-24 18:02", "2021-00102", "5"},
			{"2025-01-24 18:03", "2021-00103", "4"},
			{"2025-01-24 18:09", "2021-00107", "5"},
			{"2025-01-24 18:40", "2021-00101", "4"},
		},
	})
}

func (d *Dataset) populateCertificates() {
	d.certificatesFolderID = d.addFolder("", "Certificates")

	onboarding := d.addFolder(d.certificatesFolderID, "Onboarding 2025")
	png := d.addFolder(onboarding, "png")
	d.addImage(png, "jane_doe.png")
	d.addImage(png, "john_smith.png")
	d.addImage(png, "maria_cruz.png")

	// No png subfolder here, so resolution falls back to direct files.
	hackathon := d.addFolder(d.certificatesFolderID, "Hackathon")
	d.addImage(hackathon, "alex_reyes.png")
	d.addImage(hackathon, "sam_garcia.png")
	d.addFile(hackathon, "scores.txt")
}
