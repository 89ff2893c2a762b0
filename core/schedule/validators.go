package schedule

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
)

const endAfterStartTag = "endafterstart"

var validations = []core.Validation{
	{
		Tag:  "hhmm",
		Text: "time must be in HH:MM 24-hour format",
		Func: core.StringFunc(func(s string) bool {
			_, err := ParseClock(s)
			return err == nil
		}),
	},
	{
		Tag:  "weekday",
		Text: "day must be one of Monday, Tuesday, Wednesday, Thursday, Friday or Saturday",
		Func: core.StringFunc(func(s string) bool { return Day(s).IsValid() }),
	},
	{
		Tag:  "sessiontype",
		Text: "type must be one of lecture, lab or tutorial",
		Func: core.StringFunc(func(s string) bool { return SessionType(s).IsValid() }),
	},
	{Tag: endAfterStartTag, Text: "end time cannot be before start time"},
}

// InitValidators registers the session validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterValidations(validate, translator, validations...)
	validate.RegisterStructValidation(sessionStructValidation, NewSession{})
}

// sessionStructValidation checks that a session does not end before it starts.
func sessionStructValidation(sl validator.StructLevel) {
	ns, ok := sl.Current().Interface().(NewSession)
	if !ok {
		return
	}
	start, err1 := ParseClock(ns.StartTime)
	end, err2 := ParseClock(ns.EndTime)
	if err1 != nil || err2 != nil {
		return // reported by hhmm
	}
	if end < start {
		sl.ReportError(ns.EndTime, "end_time", "EndTime", endAfterStartTag, "")
	}
}
