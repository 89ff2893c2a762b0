package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/teacher"
)

// timetable prints the week of the sessions in scope, one block per day.
func (cli *commandLine) timetable(scope schedule.Scope) error {
	ctx := context.Background()
	sessions, err := cli.sessions.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	teachers, err := cli.teachers.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	dir := teacher.NewDirectory(teachers)

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, day := range schedule.Week(sessions, scope) {
		fmt.Fprintln(w, strings.ToUpper(day.Day.String()))
		if len(day.Sessions) == 0 {
			fmt.Fprintln(w, "  -")
			continue
		}
		for _, s := range day.Sessions {
			fmt.Fprintf(w, "  %s-%s\t%s\t%s\t%s\t%s\n", s.StartTime, s.EndTime, s.Subject, s.Type, s.Room, dir.NameOf(s.TeacherID))
		}
	}
	return w.Flush()
}
