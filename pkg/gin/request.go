package gin

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DateLayout is the date format used in GIN queries and plan configuration
const DateLayout = "2006-01-02"

// DataRequest describes a single GIN GetData query
type DataRequest struct {
	Station           string
	SamplesPerDay     int
	Orientation       string
	PublicationState  string
	Format            string
	RecordTermination string
	TestObservatories bool
	StartDate         time.Time
	DurationDays      int
}

// RateSuffix returns the file suffix for a GIN sample rate
func RateSuffix(samplesPerDay int) (string, error) {
	switch samplesPerDay {
	case 1440:
		return "min", nil
	case 86400:
		return "sec", nil
	case 24:
		return "hor", nil
	case 1:
		return "day", nil
	default:
		return "", fmt.Errorf("unsupported samples per day: %d", samplesPerDay)
	}
}

// URL builds the GetData query against base. Parameters keep the order the
// GIN documentation lists them in, so url.Values is not used.
func (r DataRequest) URL(base string) string {
	testObsys := "0"
	if r.TestObservatories {
		testObsys = "1"
	}

	params := [][2]string{
		{"Request", "GetData"},
		{"format", r.Format},
		{"testObsys", testObsys},
		{"observatoryIagaCode", strings.ToUpper(r.Station)},
		{"samplesPerDay", fmt.Sprintf("%d", r.SamplesPerDay)},
		{"orientation", r.Orientation},
		{"publicationState", r.PublicationState},
		{"recordTermination", r.RecordTermination},
		{"dataStartDate", r.StartDate.Format(DateLayout)},
		{"dataDuration", fmt.Sprintf("%d", r.DurationDays)},
	}

	var b strings.Builder
	b.WriteString(base)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

// FileName returns the local name for the request's data, e.g.
// pet2017min.min for a year starting on January 1 or pet20170908min.min
// for anything else.
func (r DataRequest) FileName() (string, error) {
	suffix, err := RateSuffix(r.SamplesPerDay)
	if err != nil {
		return "", err
	}

	date := r.StartDate.Format("20060102")
	if r.StartDate.YearDay() == 1 && r.DurationDays == daysInYear(r.StartDate.Year()) {
		date = r.StartDate.Format("2006")
	}

	return fmt.Sprintf("%s%s%s.%s", strings.ToLower(r.Station), date, suffix, suffix), nil
}

func daysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
