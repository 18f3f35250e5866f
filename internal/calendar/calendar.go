// Package calendar 负责按公司的工作日与节假日配置计算请假区间内的工作日数。
package calendar

import (
	"slices"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

const DateLayout = "2006-01-02"

// Date 把任意时刻截断成 UTC 零点的日期，只保留年月日
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Days 返回闭区间 [start, end] 包含的天数，end 早于 start 时返回 0
func Days(start, end time.Time) int {
	start, end = Date(start), Date(end)
	if start.After(end) {
		return 0
	}
	return int((end.Unix()-start.Unix())/secondsPerDay) + 1
}

const secondsPerDay = 24 * 60 * 60

// IsHoliday 判断某天是否为节假日，循环节假日只比较月和日
func IsHoliday(day time.Time, holidays []domain.CompanyHoliday) bool {
	day = Date(day)
	for _, h := range holidays {
		if h.IsRecurring {
			_, hm, hd := h.Date.Date()
			_, m, d := day.Date()
			if hm == m && hd == d {
				return true
			}
			continue
		}
		if Date(h.Date).Equal(day) {
			return true
		}
	}
	return false
}

// holidayDates 把节假日展开成区间内的具体日期，循环节假日每年展开一次。
// 2 月 29 日的循环节假日只落在闰年。
func holidayDates(start, end time.Time, holidays []domain.CompanyHoliday) map[time.Time]struct{} {
	dates := make(map[time.Time]struct{})
	add := func(day time.Time) {
		if !day.Before(start) && !day.After(end) {
			dates[day] = struct{}{}
		}
	}

	for _, h := range holidays {
		if !h.IsRecurring {
			add(Date(h.Date))
			continue
		}
		_, m, d := h.Date.Date()
		for y := start.Year(); y <= end.Year(); y++ {
			day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			if day.Month() != m {
				continue
			}
			add(day)
		}
	}

	return dates
}

// WorkingDays 统计闭区间 [start, end] 内既是工作日又不是节假日的天数。
// end 早于 start 时返回 0。整周直接按每周工作日数相乘，
// 只有不足一周的部分和节假日需要逐个检查，耗时与区间长度无关。
func WorkingDays(start, end time.Time, workingDays []time.Weekday, holidays []domain.CompanyHoliday) int {
	var working [7]bool
	perWeek := 0
	for _, wd := range workingDays {
		if wd < time.Sunday || wd > time.Saturday || working[wd] {
			continue
		}
		working[wd] = true
		perWeek++
	}
	if perWeek == 0 {
		return 0
	}

	start, end = Date(start), Date(end)
	total := Days(start, end)
	if total == 0 {
		return 0
	}

	count := total / 7 * perWeek
	first := start.Weekday()
	for i := 0; i < total%7; i++ {
		if working[(int(first)+i)%7] {
			count++
		}
	}

	for day := range holidayDates(start, end, holidays) {
		if working[day.Weekday()] {
			count--
		}
	}

	return count
}

// Overlaps 判断两个闭区间是否有交集
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !Date(aStart).After(Date(bEnd)) && !Date(bStart).After(Date(aEnd))
}

// NormalizeWeekdays 去重并排序，拒绝 0-6 以外的值
func NormalizeWeekdays(days []int) ([]time.Weekday, bool) {
	result := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < int(time.Sunday) || d > int(time.Saturday) {
			return nil, false
		}
		if !slices.Contains(result, time.Weekday(d)) {
			result = append(result, time.Weekday(d))
		}
	}
	slices.Sort(result)
	return result, true
}
