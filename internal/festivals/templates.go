package festivals

import (
	"fmt"
	"strings"
	"time"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

// MonthDay is a yearless calendar date.
type MonthDay struct {
	Month time.Month
	Day   int
}

func (md MonthDay) In(year int) time.Time {
	return time.Date(year, md.Month, md.Day, 0, 0, 0, 0, time.UTC)
}

// Template holds the parts of a festival that do not change from year to year.
type Template struct {
	ID           string
	Name         string
	Region       domain.Region
	Location     string
	Website      string
	Contacts     []domain.FestivalContact
	Submission   MonthDay
	ProducersHub MonthDay
	Start        MonthDay
	End          MonthDay
	NumberOfDays int
}

var Templates = []Template{
	{
		ID: "cannes", Name: "Cannes Film Festival", Region: domain.RegionEurope,
		Location: "Cannes, France", Website: "https://www.festival-cannes.com",
		Contacts: []domain.FestivalContact{{Name: "Thierry Frémaux", Role: "Artistic Director",
			Email: "thierry.fremaux@festival-cannes.fr", Phone: "+33 4 93 99 71 71"}},
		Submission: MonthDay{time.March, 15}, ProducersHub: MonthDay{time.April, 1},
		Start: MonthDay{time.May, 14}, End: MonthDay{time.May, 25}, NumberOfDays: 12,
	},
	{
		ID: "sundance", Name: "Sundance Film Festival", Region: domain.RegionNorthAmerica,
		Location: "Park City, Utah, USA", Website: "https://www.sundance.org",
		Contacts: []domain.FestivalContact{{Name: "Kim Yutani", Role: "Director of Programming",
			Email: "programming@sundance.org", Phone: "+1 435 658 3456"}},
		Submission: MonthDay{time.August, 15}, ProducersHub: MonthDay{time.September, 1},
		Start: MonthDay{time.January, 23}, End: MonthDay{time.February, 2}, NumberOfDays: 11,
	},
	{
		ID: "berlin", Name: "Berlin International Film Festival", Region: domain.RegionEurope,
		Location: "Berlin, Germany", Website: "https://www.berlinale.de",
		Contacts: []domain.FestivalContact{{Name: "Carlo Chatrian", Role: "Artistic Director",
			Email: "info@berlinale.de", Phone: "+49 30 259 20 0"}},
		Submission: MonthDay{time.October, 15}, ProducersHub: MonthDay{time.November, 1},
		Start: MonthDay{time.February, 13}, End: MonthDay{time.February, 23}, NumberOfDays: 11,
	},
	{
		ID: "toronto", Name: "Toronto International Film Festival", Region: domain.RegionNorthAmerica,
		Location: "Toronto, Canada", Website: "https://www.tiff.net",
		Contacts: []domain.FestivalContact{{Name: "Cameron Bailey", Role: "CEO & Artistic Director",
			Email: "info@tiff.net", Phone: "+1 416 599 8433"}},
		Submission: MonthDay{time.May, 15}, ProducersHub: MonthDay{time.June, 1},
		Start: MonthDay{time.September, 4}, End: MonthDay{time.September, 14}, NumberOfDays: 11,
	},
	{
		ID: "venice", Name: "Venice Film Festival", Region: domain.RegionEurope,
		Location: "Venice, Italy", Website: "https://www.labiennale.org",
		Contacts: []domain.FestivalContact{{Name: "Alberto Barbera", Role: "Artistic Director",
			Email: "info@labiennale.org", Phone: "+39 041 272 6500"}},
		Submission: MonthDay{time.June, 15}, ProducersHub: MonthDay{time.July, 1},
		Start: MonthDay{time.August, 27}, End: MonthDay{time.September, 6}, NumberOfDays: 11,
	},
	{
		ID: "busan", Name: "Busan International Film Festival", Region: domain.RegionAsia,
		Location: "Busan, South Korea", Website: "https://www.biff.kr",
		Contacts: []domain.FestivalContact{{Name: "Jay Jeon", Role: "Programmer",
			Email: "program@biff.kr", Phone: "+82 51 709 2200"}},
		Submission: MonthDay{time.June, 30}, ProducersHub: MonthDay{time.July, 15},
		Start: MonthDay{time.October, 1}, End: MonthDay{time.October, 10}, NumberOfDays: 10,
	},
}

// Lookup finds a template by id.
func Lookup(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// TemplateID strips the trailing year segment from a festival id ("cannes-2025" -> "cannes").
func TemplateID(festivalID string) (string, bool) {
	i := strings.LastIndex(festivalID, "-")
	if i <= 0 {
		return "", false
	}
	return festivalID[:i], true
}

func FestivalID(templateID string, year int) string {
	return fmt.Sprintf("%s-%d", templateID, year)
}

// Instance builds the festival edition of t for year.
func (t Template) Instance(year int) domain.Festival {
	contacts := make(domain.FestivalContacts, len(t.Contacts))
	copy(contacts, t.Contacts)
	return domain.Festival{
		ID:                     FestivalID(t.ID, year),
		Name:                   t.Name,
		Region:                 t.Region,
		Year:                   year,
		FilmSubmissionDeadline: t.Submission.In(year),
		ProducersHubDeadline:   t.ProducersHub.In(year),
		StartDate:              t.Start.In(year),
		EndDate:                t.End.In(year),
		NumberOfDays:           t.NumberOfDays,
		Contacts:               contacts,
		Website:                t.Website,
		Location:               t.Location,
	}
}

// Generate returns every template's edition for each year in [from, to].
func Generate(from, to int) []domain.Festival {
	var out []domain.Festival
	for y := from; y <= to; y++ {
		for _, t := range Templates {
			out = append(out, t.Instance(y))
		}
	}
	return out
}

// Defaults is the festival set for the year of now and the next.
func Defaults(now time.Time) []domain.Festival {
	return Generate(now.Year(), now.Year()+1)
}
