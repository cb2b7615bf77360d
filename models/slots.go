package models

// DefaultSlotCatalog is the fixed list of bookable times offered each day.
var DefaultSlotCatalog = []string{"09:00", "10:30", "11:45", "14:00", "15:15", "16:30"}

// DefaultDoctors and DefaultServices seed the booking form.
var (
	DefaultDoctors  = []string{"Dr. Aisha Sharma", "Dr. Rajiv Mehta"}
	DefaultServices = []string{"General Checkup", "Specialist Consult"}
)

// FilterSlots returns the catalog entries not present in booked, keeping catalog order.
func FilterSlots(catalog, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}
	free := make([]string, 0, len(catalog))
	for _, t := range catalog {
		if _, ok := taken[t]; !ok {
			free = append(free, t)
		}
	}
	return free
}
