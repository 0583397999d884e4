package types_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	types "github.com/xparky/portal/internal/domain/types"
)

func TestLeaderboardRow(t *testing.T) {
	Convey("Given a LeaderboardRow struct", t, func() {
		Convey("When creating a new row", func() {
			row := types.LeaderboardRow{
				StudentNumber: "2021-00123",
				FirstName:     "Jane",
				LastName:      "Doe",
				Points:        350,
			}

			Convey("Then it should have the correct values", func() {
				So(row.StudentNumber, ShouldEqual, "2021-00123")
				So(row.FirstName, ShouldEqual, "Jane")
				So(row.LastName, ShouldEqual, "Doe")
				So(row.Points, ShouldEqual, 350)
			})
		})

		Convey("When creating a row with zero values", func() {
			row := types.LeaderboardRow{}

			Convey("Then it should have default values", func() {
				So(row.StudentNumber, ShouldEqual, "")
				So(row.FirstName, ShouldEqual, "")
				So(row.LastName, ShouldEqual, "")
				So(row.Points, ShouldEqual, 0)
			})
		})

		Convey("When marshaling a row to JSON", func() {
			row := types.LeaderboardRow{
				StudentNumber: "2021-00123",
				FirstName:     "Jane",
				LastName:      "Doe",
				Points:        350,
			}

			out, err := json.Marshal(row)

			Convey("Then it should use the wire field names", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldContainSubstring, `"student_number":"2021-00123"`)
				So(string(out), ShouldContainSubstring, `"first_name":"Jane"`)
				So(string(out), ShouldContainSubstring, `"last_name":"Doe"`)
				So(string(out), ShouldContainSubstring, `"xparky_points":350`)
			})
		})

		Convey("When a student has no activity", func() {
			row := types.LeaderboardRow{
				StudentNumber: "2021-00456",
				FirstName:     "Alan",
				LastName:      "Smith",
				Points:        0,
			}

			Convey("Then zero points should survive the round trip", func() {
				out, err := json.Marshal(row)
				So(err, ShouldBeNil)

				var back types.LeaderboardRow
				So(json.Unmarshal(out, &back), ShouldBeNil)
				So(back.Points, ShouldEqual, 0)
				So(back.StudentNumber, ShouldEqual, "2021-00456")
			})
		})
	})
}
