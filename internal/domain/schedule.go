package domain

import (
	"fmt"
	"time"
)

// ScheduleRule allows delivery on one weekday. Orders for that day must be
// submitted no later than LeadDays before the delivery date, by Cutoff
// ("HH:MM", 24h). The cutoff itself still qualifies.
type ScheduleRule struct {
	Weekday  time.Weekday `json:"weekday"`
	Cutoff   string       `json:"cutoff"`
	LeadDays int          `json:"lead_days"`
}

// DeliverySchedule is the set of weekdays a customer can receive deliveries.
type DeliverySchedule []ScheduleRule

// Validate checks every rule for a usable weekday, cutoff and lead offset.
func (s DeliverySchedule) Validate() error {
	var errs ValidationErrors
	for i, r := range s {
		if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("delivery_schedule[%d].weekday", i),
				Message: "weekday must be between 0 (Sunday) and 6 (Saturday)",
			})
		}
		if _, err := parseCutoff(r.Cutoff); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("delivery_schedule[%d].cutoff", i),
				Message: "cutoff must be a time of day in HH:MM format",
			})
		}
		if r.LeadDays < 0 || r.LeadDays > 6 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("delivery_schedule[%d].lead_days", i),
				Message: "lead days must be between 0 and 6",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// NextDelivery returns the nearest delivery date at or after now whose order
// deadline has not passed. Each rule yields at most two candidates (this
// week's occurrence and the next), so the scan is bounded.
func (s DeliverySchedule) NextDelivery(now time.Time) (time.Time, error) {
	if len(s) == 0 {
		return time.Time{}, &ConfigurationError{Reason: "customer has no delivery schedule"}
	}
	if err := s.Validate(); err != nil {
		return time.Time{}, &ConfigurationError{Reason: err.Error()}
	}

	var best time.Time
	for _, r := range s {
		candidate := nextWeekday(now, r.Weekday)
		if now.After(r.deadlineFor(candidate)) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		if best.IsZero() || candidate.Before(best) {
			best = candidate
		}
	}
	return best, nil
}

// deadlineFor is the last moment an order for the given delivery date is
// accepted: LeadDays before delivery, at the cutoff time.
func (r ScheduleRule) deadlineFor(deliveryDate time.Time) time.Time {
	hour, minute, _ := mustParseCutoff(r.Cutoff)
	day := deliveryDate.AddDate(0, 0, -r.LeadDays)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// nextWeekday returns the date (midnight) of the next occurrence of wd at or
// after now, in now's location.
func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := (int(wd) - int(now.Weekday()) + 7) % 7
	return today.AddDate(0, 0, offset)
}

func parseCutoff(cutoff string) (time.Time, error) {
	return time.Parse("15:04", cutoff)
}

func mustParseCutoff(cutoff string) (hour, minute, sec int) {
	t, err := parseCutoff(cutoff)
	if err != nil {
		return 0, 0, 0
	}
	return t.Hour(), t.Minute(), 0
}

// WeekdayNames lists the scheduled delivery days for display.
func (s DeliverySchedule) WeekdayNames() []string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = r.Weekday.String()
	}
	return names
}
