package parse

import "regexp"

// Field patterns applied to extracted text. Scanning is case-insensitive;
// the semester split is not, mirroring validation's strictness.
var (
	reCourseCode  = regexp.MustCompile(`(?i)(?:Course|Class)\s+(?:Code|Number):\s*([A-Z]{2,4}\s*\d{3,4})`)
	reCourseName  = regexp.MustCompile(`(?i)(?:Course|Class)\s+(?:Title|Name):\s*(.+?)(?:\n|$)`)
	reInstructor  = regexp.MustCompile(`(?i)(?:Instructor|Professor|Teacher):\s*(.+?)(?:\n|$)`)
	reEmail       = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	reOfficeHours = regexp.MustCompile(`(?i)(?:Office\s+Hours):\s*(.+?)(?:\n|$)`)
	reSemester    = regexp.MustCompile(`(?i)(?:Term|Semester):\s*((?:Fall|Spring|Summer|Winter)\s*\d{4})`)
	reTextbook    = regexp.MustCompile(`(?i)(?:Required\s+)?(?:Text|Textbook)s?:\s*(.+?)(?:\n|$)`)
	reGrading     = regexp.MustCompile(`(\d{1,3})%\s*[-–]\s*([A-Za-z\s]+)`)

	reSemesterSplit = regexp.MustCompile(`^(Fall|Spring|Summer|Winter)\s*(\d{4})`)

	reImportantDate = regexp.MustCompile(`(\w+\s+\d{1,2}(?:st|nd|rd|th)?(?:,\s*\d{4})?)\s*[-–]\s*(.+?)(?:\n|$)`)
)
