package models

// AcademicSession is the term the portal currently runs in.
type AcademicSession struct {
	Session   string `json:"session"`
	Duration  string `json:"duration"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
