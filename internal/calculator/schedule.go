package calculator

import "time"

// ScheduledInstallment is one entry of a generated payment schedule.
type ScheduledInstallment struct {
	Number int
	Amount float64
	DueAt  int64 // Unix timestamp
}

// BuildSchedule splits total into count installments due every frequencyDays
// starting at firstDue.
//
// Each installment is total/count rounded to 2 decimals, except the last one,
// which is total minus the sum of the previous installments. That absorbs the
// rounding drift so the schedule always sums to total exactly, to the cent
// (e.g. 100.00 over 3 → 33.33, 33.33, 33.34).
func BuildSchedule(total float64, count int, firstDue time.Time, frequencyDays int) []ScheduledInstallment {
	perInstallment := RoundTo2(total / float64(count))

	schedule := make([]ScheduledInstallment, 0, count)
	accumulated := 0.0
	for i := 1; i <= count; i++ {
		amount := perInstallment
		if i == count {
			amount = RoundTo2(total - accumulated)
		}

		schedule = append(schedule, ScheduledInstallment{
			Number: i,
			Amount: amount,
			DueAt:  firstDue.AddDate(0, 0, (i-1)*frequencyDays).Unix(),
		})
		accumulated = RoundTo2(accumulated + amount)
	}

	return schedule
}
