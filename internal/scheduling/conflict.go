package scheduling

import (
	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/model"
)

// Decision is the outcome of a conflict check.
type Decision struct {
	OK            bool
	ConflictingID uuid.UUID
}

// CheckConflict decides whether the proposed interval may be booked against
// the given candidate appointments. Candidates are whatever the store returned
// for the practitioner around the proposed window; inactive appointments and
// the excluded record (the appointment being rescheduled) are skipped here so
// callers do not have to pre-filter. The first colliding appointment id is
// reported on rejection.
func CheckConflict(proposed Interval, candidates []*model.Appointment, excludeID uuid.UUID) Decision {
	for _, apt := range candidates {
		if excludeID != uuid.Nil && apt.ID == excludeID {
			continue
		}
		if !apt.Status.Active() {
			continue
		}
		if proposed.Overlaps(Interval{Start: apt.StartTime, End: apt.EndTime}) {
			return Decision{ConflictingID: apt.ID}
		}
	}
	return Decision{OK: true}
}
