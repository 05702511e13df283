package domain

// RawScheduleEntry is a schedule row exactly as submitted by the form app.
type RawScheduleEntry struct {
	Day      string `json:"day" validate:"max=64"`
	Date     string `json:"date" validate:"max=32"`
	Time     string `json:"time" validate:"max=64"`
	Location string `json:"location" validate:"max=200"`
}

// FormInput is the request body of both the preview and the submit endpoints. Only sizes are
// checked on the raw input; the normalized record is validated before it is stored.
type FormInput struct {
	EmployeeName  string             `json:"employeeName" validate:"max=200"`
	RequestorName string             `json:"requestorName" validate:"max=200"`
	RequestDate   string             `json:"requestDate" validate:"max=32"`
	ServiceWeek   ServiceWeek        `json:"serviceWeek"`
	Schedule      []RawScheduleEntry `json:"schedule" validate:"max=14,dive"`
	Signature     string             `json:"signature"`
	IsSubmit      *bool              `json:"isSubmit"`
}
