package timer

import "fmt"

// ToSeconds converts hours, minutes and seconds to a second count.
func ToSeconds(hours, minutes, seconds int) int {
	return hours*3600 + minutes*60 + seconds
}

// SecondsOf returns the seconds component of total.
func SecondsOf(total int) int {
	return total % 60
}

// MinutesOf returns the minutes component of total, without whole hours.
func MinutesOf(total int) int {
	return total / 60 % 60
}

// HoursOf returns the whole hours in total.
func HoursOf(total int) int {
	return total / 3600
}

// FormatClock renders total as zero-padded MM:SS. Whole hours are not shown.
func FormatClock(total int) string {
	return fmt.Sprintf("%02d:%02d", MinutesOf(total), SecondsOf(total))
}
