package smoke

// HTTP status code constants.
const (
	statusOK = 200
)

// Display configuration constants.
const (
	displayTopN = 10
)
