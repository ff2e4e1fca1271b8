package integration

import "time"

func noonClock() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
}

func eveningClock() time.Time {
	return time.Date(2025, 3, 10, 21, 0, 0, 0, time.Local)
}
