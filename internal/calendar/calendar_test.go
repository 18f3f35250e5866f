package calendar

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWorkingDays(t *testing.T) {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

	testCases := []struct {
		name        string
		start, end  string
		workingDays []time.Weekday
		holidays    []domain.CompanyHoliday
		expected    int
	}{
		{
			name:        "single working day",
			start:       "2024-06-03",
			end:         "2024-06-03",
			workingDays: weekdays,
			expected:    1,
		},
		{
			name:        "single non-working day",
			start:       "2024-06-08",
			end:         "2024-06-08",
			workingDays: weekdays,
			expected:    0,
		},
		{
			name:        "single holiday",
			start:       "2024-06-10",
			end:         "2024-06-10",
			workingDays: weekdays,
			holidays:    []domain.CompanyHoliday{{Name: "端午节", Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)}},
			expected:    0,
		},
		{
			name:        "monday to friday",
			start:       "2024-06-03",
			end:         "2024-06-07",
			workingDays: weekdays,
			expected:    5,
		},
		{
			name:        "two weeks with a holiday",
			start:       "2024-06-03",
			end:         "2024-06-16",
			workingDays: weekdays,
			holidays:    []domain.CompanyHoliday{{Name: "端午节", Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)}},
			expected:    9,
		},
		{
			name:        "holiday on a weekend is not subtracted twice",
			start:       "2024-06-03",
			end:         "2024-06-09",
			workingDays: weekdays,
			holidays:    []domain.CompanyHoliday{{Name: "周末活动", Date: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)}},
			expected:    5,
		},
		{
			name:        "recurring holiday matches another year",
			start:       "2025-12-22",
			end:         "2025-12-26",
			workingDays: weekdays,
			holidays:    []domain.CompanyHoliday{{Name: "圣诞节", Date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), IsRecurring: true}},
			expected:    4,
		},
		{
			name:        "non recurring holiday does not match another year",
			start:       "2025-12-22",
			end:         "2025-12-26",
			workingDays: weekdays,
			holidays:    []domain.CompanyHoliday{{Name: "圣诞节", Date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)}},
			expected:    5,
		},
		{
			name:     "no working days configured",
			start:    "2024-06-03",
			end:      "2024-06-30",
			expected: 0,
		},
		{
			name:        "end before start",
			start:       "2024-06-07",
			end:         "2024-06-03",
			workingDays: weekdays,
			expected:    0,
		},
		{
			name:        "six day week",
			start:       "2024-06-03",
			end:         "2024-06-09",
			workingDays: append([]time.Weekday{time.Saturday}, weekdays...),
			expected:    6,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := WorkingDays(mustDate(t, tc.start), mustDate(t, tc.end), tc.workingDays, tc.holidays)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestWorkingDaysAnyWeekIsFive(t *testing.T) {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	start := mustDate(t, "2024-06-01")

	for i := 0; i < 14; i++ {
		s := start.AddDate(0, 0, i)
		assert.Equal(t, 5, WorkingDays(s, s.AddDate(0, 0, 6), weekdays, nil), "start %s", FormatDate(s))
	}
}

func TestWorkingDaysIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	start := time.Date(2024, 6, 3, 23, 30, 0, 0, loc)
	end := time.Date(2024, 6, 4, 0, 15, 0, 0, loc)

	assert.Equal(t, 2, WorkingDays(start, end, []time.Weekday{time.Monday, time.Tuesday}, nil))
}

func TestOverlaps(t *testing.T) {
	d := func(s string) time.Time { return mustDate(t, s) }

	assert.True(t, Overlaps(d("2024-06-03"), d("2024-06-07"), d("2024-06-07"), d("2024-06-10")))
	assert.True(t, Overlaps(d("2024-06-03"), d("2024-06-07"), d("2024-06-04"), d("2024-06-05")))
	assert.True(t, Overlaps(d("2024-06-04"), d("2024-06-05"), d("2024-06-03"), d("2024-06-07")))
	assert.False(t, Overlaps(d("2024-06-03"), d("2024-06-07"), d("2024-06-08"), d("2024-06-10")))
	assert.False(t, Overlaps(d("2024-06-08"), d("2024-06-10"), d("2024-06-03"), d("2024-06-07")))
}

func TestNormalizeWeekdays(t *testing.T) {
	days, ok := NormalizeWeekdays([]int{5, 1, 3, 1})
	require.True(t, ok)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, days)

	_, ok = NormalizeWeekdays([]int{1, 7})
	assert.False(t, ok)
}

// countDayByDay 逐日统计，作为 WorkingDays 的对照
func countDayByDay(start, end time.Time, workingDays []time.Weekday, holidays []domain.CompanyHoliday) int {
	count := 0
	for day := Date(start); !day.After(Date(end)); day = day.AddDate(0, 0, 1) {
		if slices.Contains(workingDays, day.Weekday()) && !IsHoliday(day, holidays) {
			count++
		}
	}
	return count
}

func TestWorkingDaysMatchesDayByDayCount(t *testing.T) {
	holidays := []domain.CompanyHoliday{
		{Name: "元旦", Date: mustDate(t, "2023-01-01"), IsRecurring: true},
		{Name: "劳动节", Date: mustDate(t, "2020-05-01"), IsRecurring: true},
		{Name: "闰日", Date: mustDate(t, "2024-02-29"), IsRecurring: true},
		{Name: "端午节", Date: mustDate(t, "2024-06-10")},
		{Name: "端午节", Date: mustDate(t, "2024-06-10")},
		{Name: "调休", Date: mustDate(t, "2025-10-08")},
	}
	weekSets := [][]time.Weekday{
		{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		{time.Saturday, time.Sunday},
		{time.Wednesday, time.Wednesday},
	}

	base := mustDate(t, "2023-12-25")
	for _, workingDays := range weekSets {
		for offset := 0; offset < 9; offset++ {
			for length := 0; length < 900; length += 37 {
				start := base.AddDate(0, 0, offset)
				end := start.AddDate(0, 0, length)
				assert.Equal(t, countDayByDay(start, end, workingDays, holidays), WorkingDays(start, end, workingDays, holidays),
					"%s..%s %v", FormatDate(start), FormatDate(end), workingDays)
			}
		}
	}
}

func TestWorkingDaysRecurringLeapDay(t *testing.T) {
	everyDay := []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	leapDay := []domain.CompanyHoliday{{Name: "闰日", Date: mustDate(t, "2024-02-29"), IsRecurring: true}}

	assert.Equal(t, 365, WorkingDays(mustDate(t, "2025-01-01"), mustDate(t, "2025-12-31"), everyDay, leapDay))
	assert.Equal(t, 365, WorkingDays(mustDate(t, "2028-01-01"), mustDate(t, "2028-12-31"), everyDay, leapDay))
}

func TestWorkingDaysWholeCalendarRange(t *testing.T) {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	start := mustDate(t, "0001-01-01")
	end := mustDate(t, "9999-12-31")

	holidays := make([]domain.CompanyHoliday, 0, 30)
	for i := 0; i < 30; i++ {
		holidays = append(holidays, domain.CompanyHoliday{Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)})
	}

	began := time.Now()
	// 0001-01-01 是周一，共 3652059 天，即 521722 周余 5 天
	assert.Equal(t, 521722*5+5, WorkingDays(start, end, weekdays, nil))
	// 2024-01-01 起的 30 天中有 22 个工作日
	assert.Equal(t, 521722*5+5-22, WorkingDays(start, end, weekdays, holidays))
	assert.Less(t, time.Since(began), time.Second)
}

func TestDays(t *testing.T) {
	assert.Equal(t, 1, Days(mustDate(t, "2024-06-03"), mustDate(t, "2024-06-03")))
	assert.Equal(t, 366, Days(mustDate(t, "2024-01-01"), mustDate(t, "2024-12-31")))
	assert.Equal(t, 0, Days(mustDate(t, "2024-06-07"), mustDate(t, "2024-06-03")))
	assert.Equal(t, 3652059, Days(mustDate(t, "0001-01-01"), mustDate(t, "9999-12-31")))
}
