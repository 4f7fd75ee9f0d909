package timezone

import "time"

// Пакет переводит моменты времени между UTC и именованными таймзонами IANA.
//
// Политика обработки неизвестных имён зон: зона молча деградирует до UTC.
// Это осознанное поведение, а не ошибка - запись с опечаткой в настройках
// госпиталя не должна ронять бронирование. Обратная сторона: вызывающий код
// не может через этот интерфейс отличить "настоящий UTC" от "неизвестной
// зоны". Там, где нужна строгость (зона явно передана клиентом), вызывающий
// код обязан предварительно проверить зону через IsValid.

// Location возвращает *time.Location для имени зоны
// Пустое или неизвестное имя даёт time.UTC
func Location(zone string) *time.Location {
	if zone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsValid проверяет, что имя зоны известно базе tzdata
func IsValid(zone string) bool {
	if zone == "" {
		return false
	}
	_, err := time.LoadLocation(zone)
	return err == nil
}

// ToZone переводит момент времени в настенное время указанной зоны
// Момент не меняется, меняется только представление
func ToZone(t time.Time, zone string) time.Time {
	return t.In(Location(zone))
}

// ToUTC интерпретирует компоненты wall (год, месяц, день, часы, минуты...)
// как настенное время в указанной зоне и возвращает соответствующий момент UTC
func ToUTC(wall time.Time, zone string) time.Time {
	loc := Location(zone)
	return time.Date(
		wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(),
		loc,
	).UTC()
}

// Now возвращает текущее время в указанной зоне
func Now(zone string) time.Time {
	return time.Now().In(Location(zone))
}

// DayBounds возвращает границы локальных календарных суток [start, end)
// для даты date в указанной зоне, обе границы в UTC
// Компоненты date трактуются как календарная дата, зона самого date игнорируется
func DayBounds(date time.Time, zone string) (start, end time.Time) {
	loc := Location(zone)
	start = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc).UTC()
	end = time.Date(date.Year(), date.Month(), date.Day()+1, 0, 0, 0, 0, loc).UTC()
	return start, end
}
