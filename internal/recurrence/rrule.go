package recurrence

import (
	"github.com/teambition/rrule-go"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

var frequencies = map[models.RecurrenceType]rrule.Frequency{
	models.RecurrenceDaily:   rrule.DAILY,
	models.RecurrenceWeekly:  rrule.WEEKLY,
	models.RecurrenceMonthly: rrule.MONTHLY,
	models.RecurrenceYearly:  rrule.YEARLY,
}

// RuleOption converts the event's rule into an RFC 5545 recurrence option
// anchored at the event date. ok is false for one-off events.
func RuleOption(e models.Event) (opt rrule.ROption, ok bool) {
	freq, ok := frequencies[ruleOf(e)]
	if !ok {
		return rrule.ROption{}, false
	}

	opt = rrule.ROption{
		Freq:    freq,
		Dtstart: utils.ParseDateLenient(e.Date),
	}
	if end, hasEnd := endDate(e); hasEnd {
		opt.Until = end
	}
	return opt, true
}

// RecurrenceFromOption maps a parsed RRULE back to a planner rule. Only plain
// FREQ rules (interval 1, no BYxxx parts, no COUNT) have an equivalent; ok
// is false for anything else.
func RecurrenceFromOption(opt rrule.ROption) (rt models.RecurrenceType, ok bool) {
	if opt.Interval > 1 || opt.Count > 0 ||
		len(opt.Byweekday) > 0 || len(opt.Bymonthday) > 0 || len(opt.Bymonth) > 0 ||
		len(opt.Bysetpos) > 0 || len(opt.Byyearday) > 0 || len(opt.Byweekno) > 0 ||
		len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 || len(opt.Byeaster) > 0 {
		return "", false
	}
	for rt, freq := range frequencies {
		if freq == opt.Freq {
			return rt, true
		}
	}
	return "", false
}
