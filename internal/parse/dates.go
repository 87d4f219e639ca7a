package parse

import (
	"strings"
	"time"

	"github.com/coursefolio/syllabus-parser/internal/syllabus"
)

// dateLayout matches "Month Day, Year" entries like "March 15, 2025".
const dateLayout = "January 2, 2006"

// resolveDates collects "date - description" lines. Entries whose date
// part does not parse as a full "Month Day, Year" are skipped silently.
func (p *Parser) resolveDates(rec *syllabus.Record, text string) {
	for _, m := range reImportantDate.FindAllStringSubmatch(text, -1) {
		when, err := time.Parse(dateLayout, m[1])
		if err != nil {
			continue
		}
		rec.ImportantDates[strings.TrimSpace(m[2])] = when
	}
}
