// Package notifysvc tells teachers by email when one of their classes changes.
package notifysvc

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/teacher"
	metricsvc "github.com/trezcool/ratiba/services/metrics"
)

type TeacherGetter interface {
	GetByID(ctx context.Context, id string) (teacher.Teacher, error)
}

type EmailNotifier struct {
	teachers TeacherGetter
	mailSvc  core.EmailService
	logger   core.Logger
	metrics  *metricsvc.Metrics
}

var _ schedule.Notifier = (*EmailNotifier)(nil)

// New returns a notifier emailing the teacher of every changed session. metrics may be nil.
func New(teachers TeacherGetter, mailSvc core.EmailService, logger core.Logger, metrics *metricsvc.Metrics) *EmailNotifier {
	return &EmailNotifier{
		teachers: teachers,
		mailSvc:  mailSvc,
		logger:   logger,
		metrics:  metrics,
	}
}

func (n *EmailNotifier) observe(outcome string) {
	if n.metrics != nil {
		n.metrics.ObserveNotification(outcome)
	}
}

// Notify emails the teacher of the changed session. When an update moves the session to
// another teacher, the previous teacher is told it was reassigned.
func (n *EmailNotifier) Notify(ctx context.Context, ev schedule.Event) {
	if n.metrics != nil {
		n.metrics.ObserveChange(string(ev.Action))
	}

	n.notify(ctx, string(ev.Action), ev.Session)
	if prev := ev.Previous; prev != nil && prev.TeacherID != ev.Session.TeacherID {
		n.notify(ctx, actionReassigned, *prev)
	}
}

const actionReassigned = "reassigned"

func (n *EmailNotifier) notify(ctx context.Context, action string, s schedule.Session) {
	t, err := n.teachers.GetByID(ctx, s.TeacherID)
	if err != nil {
		if errors.Is(err, teacher.ErrNotFound) {
			n.logger.Warn(fmt.Sprintf("class %s has no known teacher (%q); not notifying", s.ID, s.TeacherID))
			n.observe(metricsvc.NotificationSkipped)
			return
		}
		n.logger.Error(fmt.Sprintf("looking up teacher %q: %v", s.TeacherID, err), err)
		n.observe(metricsvc.NotificationFailed)
		return
	}

	n.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: t.Name, Address: t.Email}},
		Subject:      fmt.Sprintf("Class %s %s", s.Subject, action),
		TemplateName: "schedule_changed",
		TemplateData: map[string]interface{}{
			"TeacherName": t.Name,
			"Action":      action,
			"Session":     s,
		},
	})
	n.observe(metricsvc.NotificationSent)
}
