package drive_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	drive "github.com/xparky/portal/internal/adapters/drive"
	"github.com/xparky/portal/pkg/logger"
)

func TestListChildren(t *testing.T) {
	Convey("Given a Drive API stub", t, func() {
		_ = logger.Init()

		Convey("When listing a folder with files and folders", func() {
			var gotQuery, gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query().Get("q")
				gotAuth = r.Header.Get("Authorization")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"files": []map[string]string{
						{"id": "f1", "name": "2021-00123_PROJECT.pdf", "mimeType": "application/pdf"},
						{"id": "d1", "name": "evaluationForms", "mimeType": "application/vnd.google-apps.folder"},
					},
				})
			}))
			defer server.Close()

			client := drive.New(
				drive.WithDriveBaseURL(server.URL),
				drive.WithTokenSource(drive.StaticTokenSource("test-token")),
			)

			entries, err := client.ListChildren(context.Background(), "folder-123")

			Convey("Then it should return typed entries", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].ID, ShouldEqual, "f1")
				So(entries[0].Name, ShouldEqual, "2021-00123_PROJECT.pdf")
				So(entries[0].Folder, ShouldBeFalse)
				So(entries[1].Folder, ShouldBeTrue)
			})

			Convey("And it should query by parent with a bearer token", func() {
				So(gotQuery, ShouldEqual, "'folder-123' in parents")
				So(gotAuth, ShouldEqual, "Bearer test-token")
			})
		})

		Convey("When the listing spans multiple pages", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("pageToken") == "" {
					_ = json.NewEncoder(w).Encode(map[string]any{
						"nextPageToken": "page-2",
						"files":         []map[string]string{{"id": "a", "name": "first.png"}},
					})
					return
				}
				_ = json.NewEncoder(w).Encode(map[string]any{
					"files": []map[string]string{{"id": "b", "name": "second.png"}},
				})
			}))
			defer server.Close()

			client := drive.New(
				drive.WithDriveBaseURL(server.URL),
				drive.WithTokenSource(drive.StaticTokenSource("test-token")),
			)

			entries, err := client.ListChildren(context.Background(), "folder-123")

			Convey("Then it should follow nextPageToken to the end", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].ID, ShouldEqual, "a")
				So(entries[1].ID, ShouldEqual, "b")
			})
		})

		Convey("When the folder does not exist", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			}))
			defer server.Close()

			client := drive.New(
				drive.WithDriveBaseURL(server.URL),
				drive.WithTokenSource(drive.StaticTokenSource("test-token")),
			)

			entries, err := client.ListChildren(context.Background(), "missing")

			Convey("Then it should surface a not-found kind", func() {
				So(entries, ShouldBeNil)
				So(errors.Is(err, drive.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When access is denied", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "insufficient permissions", http.StatusForbidden)
			}))
			defer server.Close()

			client := drive.New(
				drive.WithDriveBaseURL(server.URL),
				drive.WithTokenSource(drive.StaticTokenSource("test-token")),
			)

			_, err := client.ListChildren(context.Background(), "locked")

			Convey("Then it should surface a forbidden kind", func() {
				So(errors.Is(err, drive.ErrForbidden), ShouldBeTrue)
			})
		})

		Convey("When no token source is configured", func() {
			client := drive.New(drive.WithDriveBaseURL("http://unused"))

			_, err := client.ListChildren(context.Background(), "folder-123")

			Convey("Then it should fail before any request", func() {
				So(errors.Is(err, drive.ErrNoTokenSource), ShouldBeTrue)
			})
		})
	})
}

func TestSheetValues(t *testing.T) {
	Convey("Given a Sheets API stub", t, func() {
		_ = logger.Init()

		Convey("When the sheet has a header and ragged rows", func() {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_ = json.NewEncoder(w).Encode(map[string]any{
					"values": [][]string{
						{"Student Number", "First Name", "Last Name"},
						{"2021-00123", "Jane", "Doe"},
						{"2021-00456", "Alan"},
					},
				})
			}))
			defer server.Close()

			client := drive.New(
				drive.WithSheetsBaseURL(server.URL),
				drive.WithTokenSource(drive.StaticTokenSource("test-token")),
			)

			table, err := client.SheetValues(context.Background(), "sheet-1", "Data")

			Convey("Then the first row becomes the header", func() {
				So(err, ShouldBeNil)
				So(table, ShouldNotBeNil)
				So(len(table.Columns), ShouldEqual, 3)
				So(table.Columns[0], ShouldEqual, "Student Number")
				So(len(table.Rows), ShouldEqual, 2)
				So(table.Rows[0][1], ShouldEqual, "Jane")
			})

			Convey("And short rows are padded to header width", func() {
				So(len(table.Rows[1]), ShouldEqual, 3)
				So(table.Rows[1][0], ShouldEqual, "2021-00456")
				So(table.Rows[1][1], ShouldEqual, "Alan")
				So(table.Rows[1][2], ShouldEqual, "")
			})

			Convey("And the request targets the full-height range of the tab", func() {
				So(gotPath, ShouldEqual, "/spreadsheets/sheet-1/values/Data!A1:Z")
			})
		})

		Convey("When the sheet exists but is empty", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"range": "Data!A1:Z"})
			}))
			defer server.Close()

			client := drive.New(
				drive.WithSheetsBaseURL(server.URL),
				drive.WithTokenSource(drive.StaticTokenSource("test-token")),
			)

			table, err := client.SheetValues(context.Background(), "sheet-1", "Data")

			Convey("Then it should report an absent table without error", func() {
				So(err, ShouldBeNil)
				So(table, ShouldBeNil)
			})
		})

		Convey("When the spreadsheet is inaccessible", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			}))
			defer server.Close()

			client := drive.New(
				drive.WithSheetsBaseURL(server.URL),
				drive.WithTokenSource(drive.StaticTokenSource("test-token")),
			)

			table, err := client.SheetValues(context.Background(), "gone", "Data")

			Convey("Then it should surface a not-found kind", func() {
				So(table, ShouldBeNil)
				So(errors.Is(err, drive.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestDownload(t *testing.T) {
	Convey("Given a Drive media stub", t, func() {
		_ = logger.Init()

		Convey("When downloading a file", func() {
			var gotPath, gotAlt string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAlt = r.URL.Query().Get("alt")
				_, _ = w.Write([]byte("png-bytes"))
			}))
			defer server.Close()

			client := drive.New(
				drive.WithDriveBaseURL(server.URL),
				drive.WithTokenSource(drive.StaticTokenSource("test-token")),
			)

			data, err := client.Download(context.Background(), "file-9")

			Convey("Then it should return the raw bytes", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "png-bytes")
			})

			Convey("And it should request the media representation", func() {
				So(gotPath, ShouldEqual, "/files/file-9")
				So(gotAlt, ShouldEqual, "media")
			})
		})

		Convey("When the file does not exist", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			}))
			defer server.Close()

			client := drive.New(
				drive.WithDriveBaseURL(server.URL),
				drive.WithTokenSource(drive.StaticTokenSource("test-token")),
			)

			data, err := client.Download(context.Background(), "gone")

			Convey("Then it should surface a not-found kind", func() {
				So(data, ShouldBeNil)
				So(errors.Is(err, drive.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestTable(t *testing.T) {
	Convey("Given a sheet table", t, func() {
		table := &drive.Table{
			Columns: []string{"Student Number", "First Name", "Last Name"},
			Rows: [][]string{
				{"2021-00123", "Jane", "Doe"},
			},
		}

		Convey("When looking up a present column", func() {
			So(table.ColumnIndex("Student Number"), ShouldEqual, 0)
			So(table.ColumnIndex("Last Name"), ShouldEqual, 2)
		})

		Convey("When looking up an absent column", func() {
			So(table.ColumnIndex("Position"), ShouldEqual, -1)
		})

		Convey("When the lookup differs only in case", func() {
			Convey("Then it should not match", func() {
				So(table.ColumnIndex("student number"), ShouldEqual, -1)
			})
		})
	})
}
