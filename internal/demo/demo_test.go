package demo_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xparky/portal/internal/adapters/drive"
	demo "github.com/xparky/portal/internal/demo"
	"github.com/xparky/portal/internal/domain/certs"
	"github.com/xparky/portal/internal/domain/points"
	"github.com/xparky/portal/internal/domain/roster"
	"github.com/xparky/portal/pkg/logger"
)

func TestDatasetRoster(t *testing.T) {
	Convey("Given the demo dataset", t, func() {
		_ = logger.Init()
		d := demo.NewDataset()

		Convey("When the roster loads with the default cohort filter", func() {
			src := roster.New(d, d.RosterSpreadsheetID())
			records, err := src.Load(context.Background())

			Convey("Then only the cadets should remain", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 8)
				for _, rec := range records {
					So(rec.StudentNumber, ShouldNotEqual, "2021-00999")
				}
			})
		})
	})
}

func TestDatasetAggregation(t *testing.T) {
	Convey("Given the demo dataset", t, func() {
		_ = logger.Init()
		d := demo.NewDataset()
		agg := points.New(d,
			points.WithFolders(d.ClassroomFolderID(), d.EvalFormsFolderID()),
			points.WithRoster(roster.New(d, d.RosterSpreadsheetID())),
		)

		Convey("When the full pipeline runs", func() {
			rows, err := agg.Leaderboard(context.Background())

			Convey("Then every cadet should hold a row", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 8)
			})

			Convey("Then the top scorer should combine every rule", func() {
				So(err, ShouldBeNil)
				So(rows[0].StudentNumber, ShouldEqual, "2021-00101")
				So(rows[0].FirstName, ShouldEqual, "Jane")
				So(rows[0].Points, ShouldEqual, 620)
			})

			Convey("Then a cadet with no activity should still appear", func() {
				So(err, ShouldBeNil)
				last := rows[len(rows)-1]
				So(last.StudentNumber, ShouldEqual, "2021-00108")
				So(last.Points, ShouldEqual, 0)
			})

			Convey("Then the reserved folder upload should never score", func() {
				So(err, ShouldBeNil)
				for _, row := range rows {
					if row.StudentNumber == "2021-00108" {
						So(row.Points, ShouldEqual, 0)
					}
				}
			})
		})
	})
}

func TestDatasetCertificates(t *testing.T) {
	Convey("Given the demo dataset", t, func() {
		_ = logger.Init()
		d := demo.NewDataset()
		resolver := certs.New(d)

		Convey("When events are enumerated", func() {
			catalog := resolver.Events(context.Background(), d.CertificatesFolderID())

			Convey("Then both demo events should be present", func() {
				So(len(catalog), ShouldEqual, 2)
				So(catalog["Onboarding 2025"], ShouldNotBeEmpty)
				So(catalog["Hackathon"], ShouldNotBeEmpty)
			})

			Convey("Then the png subfolder event should resolve", func() {
				index := resolver.Certificates(context.Background(), catalog["Onboarding 2025"])
				So(len(index), ShouldEqual, 3)
				So(index["jane_doe"], ShouldNotBeEmpty)
			})

			Convey("Then the flat event should resolve through the fallback", func() {
				index := resolver.Certificates(context.Background(), catalog["Hackathon"])
				So(len(index), ShouldEqual, 2)
				So(index["alex_reyes"], ShouldNotBeEmpty)
				So(index["sam_garcia"], ShouldNotBeEmpty)
			})

			Convey("Then a resolved certificate should download as a PNG", func() {
				index := resolver.Certificates(context.Background(), catalog["Hackathon"])
				id, ok := index.Lookup("Alex_Reyes")
				So(ok, ShouldBeTrue)

				img, err := d.Download(context.Background(), id)
				So(err, ShouldBeNil)
				So(len(img), ShouldBeGreaterThan, 8)
				So(img[1], ShouldEqual, byte('P'))
				So(img[2], ShouldEqual, byte('N'))
				So(img[3], ShouldEqual, byte('G'))
			})
		})

		Convey("When an unknown file is downloaded", func() {
			_, err := d.Download(context.Background(), "missing")

			Convey("Then the not-found sentinel should surface", func() {
				So(errors.Is(err, drive.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When an unknown folder is listed", func() {
			_, err := d.ListChildren(context.Background(), "missing")

			Convey("Then the not-found sentinel should surface", func() {
				So(errors.Is(err, drive.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
