package helpers

import "time"

const (
	DateDatabase = "2006-01-02 15:04:05"
	DateFileName = "20060102_150405"
)

// Format time instance to database format.
func TimeToDatabase(time time.Time) string {
	return time.Format(DateDatabase)
}

// Format time instance to be used as a file name part.
func TimeToFileName(time time.Time) string {
	return time.Format(DateFileName)
}
