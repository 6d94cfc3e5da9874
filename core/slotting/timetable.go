package slotting

// ServiceDay selects the timetable profile for the planned day. It affects
// headways and service hours only; the slot count is fixed by configuration.
type ServiceDay string

const (
	DayRegular       ServiceDay = "regular"
	DayPublicHoliday ServiceDay = "public_holiday"
)

// Timetable is the headway profile attached to a schedule for operator
// reference.
type Timetable struct {
	FirstService          string     `json:"first_service"`
	LastService           string     `json:"last_service"`
	PeakHeadwayMinutes    float64    `json:"peak_headway"`
	OffPeakHeadwayMinutes float64    `json:"off_peak_headway"`
	ServiceType           ServiceDay `json:"service_type"`
}

// TimetableFor returns the profile for the given day type. Unknown values
// fall back to the regular profile.
func TimetableFor(day ServiceDay) Timetable {
	if day == DayPublicHoliday {
		return Timetable{
			FirstService:          "06:00",
			LastService:           "22:30",
			PeakHeadwayMinutes:    9.75,
			OffPeakHeadwayMinutes: 11,
			ServiceType:           DayPublicHoliday,
		}
	}
	return Timetable{
		FirstService:          "07:30",
		LastService:           "22:30",
		PeakHeadwayMinutes:    9.083,
		OffPeakHeadwayMinutes: 9.083,
		ServiceType:           DayRegular,
	}
}
