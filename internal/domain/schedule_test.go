package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshconcept/ordering/internal/domain"
)

// 2025-06-03 is a Tuesday, 2025-06-06 a Friday.
var (
	tuesday = time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
	friday  = time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)
)

func tueFriSchedule() domain.DeliverySchedule {
	return domain.DeliverySchedule{
		{Weekday: time.Tuesday, Cutoff: "14:00"},
		{Weekday: time.Friday, Cutoff: "14:00"},
	}
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func TestNextDeliveryBeforeCutoffIsSameDay(t *testing.T) {
	got, err := tueFriSchedule().NextDelivery(at(tuesday, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, tuesday, got)
}

func TestNextDeliveryAfterCutoffAdvancesToNextAllowedDay(t *testing.T) {
	got, err := tueFriSchedule().NextDelivery(at(tuesday, 15, 0))
	require.NoError(t, err)
	assert.Equal(t, friday, got)
}

func TestNextDeliveryAtCutoffStillQualifies(t *testing.T) {
	// The cutoff boundary is inclusive: a submission at exactly 14:00
	// still makes the same-day delivery.
	got, err := tueFriSchedule().NextDelivery(at(tuesday, 14, 0))
	require.NoError(t, err)
	assert.Equal(t, tuesday, got)
}

func TestNextDeliveryWrapsToNextWeek(t *testing.T) {
	// Friday after cutoff: both weekdays have passed, nearest is next Tuesday.
	got, err := tueFriSchedule().NextDelivery(at(friday, 16, 0))
	require.NoError(t, err)
	assert.Equal(t, tuesday.AddDate(0, 0, 7), got)
}

func TestNextDeliveryIsIdempotent(t *testing.T) {
	now := at(tuesday, 9, 30)
	schedule := tueFriSchedule()

	first, err := schedule.NextDelivery(now)
	require.NoError(t, err)
	second, err := schedule.NextDelivery(now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNextDeliveryHonorsLeadDays(t *testing.T) {
	// Friday delivery must be ordered by Wednesday 08:00.
	schedule := domain.DeliverySchedule{
		{Weekday: time.Friday, Cutoff: "08:00", LeadDays: 2},
	}

	got, err := schedule.NextDelivery(at(tuesday, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, friday, got)

	// Thursday is past the Wednesday deadline, so the order rolls over a week.
	got, err = schedule.NextDelivery(at(tuesday.AddDate(0, 0, 2), 9, 0))
	require.NoError(t, err)
	assert.Equal(t, friday.AddDate(0, 0, 7), got)
}

func TestNextDeliveryPicksChronologicallyNearestDay(t *testing.T) {
	// Rule order must not matter; Friday listed first still yields Tuesday.
	schedule := domain.DeliverySchedule{
		{Weekday: time.Friday, Cutoff: "14:00"},
		{Weekday: time.Tuesday, Cutoff: "14:00"},
	}

	got, err := schedule.NextDelivery(at(tuesday, 8, 0))
	require.NoError(t, err)
	assert.Equal(t, tuesday, got)
}

func TestNextDeliveryWithoutScheduleFails(t *testing.T) {
	var configErr *domain.ConfigurationError
	_, err := domain.DeliverySchedule{}.NextDelivery(at(tuesday, 10, 0))
	require.ErrorAs(t, err, &configErr)
}

func TestScheduleValidateRejectsBadRules(t *testing.T) {
	schedule := domain.DeliverySchedule{
		{Weekday: time.Weekday(9), Cutoff: "14:00"},
		{Weekday: time.Monday, Cutoff: "25:99"},
		{Weekday: time.Monday, Cutoff: "08:00", LeadDays: 9},
	}

	err := schedule.Validate()
	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
}

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t, []string{"Tuesday", "Friday"}, tueFriSchedule().WeekdayNames())
}
