package prorate

import "time"

// StartOfDay возвращает полночь календарного дня t в часовом поясе loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WholeDaysBetween возвращает количество полных суток от from до to.
// Неполные последние сутки не учитываются, результат отрицателен, если to раньше from.
// Сутки считаются по календарю loc, поэтому переход на летнее время не сдвигает результат.
func WholeDaysBetween(from, to time.Time, loc *time.Location) int {
	from, to = from.In(loc), to.In(loc)
	sign := 1
	if to.Before(from) {
		from, to = to, from
		sign = -1
	}

	days := calendarDays(from, to)
	if days > 0 && from.AddDate(0, 0, days).After(to) {
		days--
	}
	return sign * days
}

func calendarDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
