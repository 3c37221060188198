package model

// Raw enrollment log column positions
const (
	ColTime          = 0
	ColSubjectCourse = 1
	ColSectionCode   = 2
	ColAvailable     = 5
	ColWaitlisted    = 6
	ColTotal         = 7

	// MinColumns is the smallest row width that carries every consumed column.
	MinColumns = ColTotal + 1
)

// Split output column positions
const (
	OutColTime       = 0
	OutColAvailable  = 1
	OutColWaitlisted = 2
	OutColTotal      = 3
	OutColNormalized = 4
)

// RawHeader is the header the tracker writes at the top of enrollment.csv.
const RawHeader = "time,subj_course_id,sec_code,sec_id,prof,available,waitlist,total,enrolled_ct"

// SplitHeader is the header of every per-course and per-section output file.
var SplitHeader = []string{"time", "available", "waitlisted", "total", "normalized"}

// NoCapacity is the normalized ratio written when a row has no seats at all.
const NoCapacity = -1.0

// Output file extension
const CSVExt = ".csv"
