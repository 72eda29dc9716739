package models

import "time"

// DefaultBookingDuration — длительность занятия по умолчанию, минуты.
const DefaultBookingDuration = 60

// DefaultAvailabilityDays — сколько дней вперёд предлагать, если расписание не задано.
const DefaultAvailabilityDays = 7

// DateLayout — формат дат в расписании.
const DateLayout = "2006-01-02"

// DefaultAvailableTimes — часы по умолчанию для даты без расписания.
var DefaultAvailableTimes = []string{"09:00", "11:00", "14:00", "16:00", "18:00"}

// DefaultAvailableDates возвращает следующие DefaultAvailabilityDays дней после now.
func DefaultAvailableDates(now time.Time) []string {
	dates := make([]string, 0, DefaultAvailabilityDays)
	for i := 1; i <= DefaultAvailabilityDays; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}
