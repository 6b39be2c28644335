package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
)

var errResetFailed = errors.New("courses api fixtures were not reset, see the logs")

func (cli *commandLine) login(creds session.Credentials) error {
	p, err := cli.courses.Login(context.Background(), creds)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s (%s)\n", p.FullName, p.Role)
	return nil
}

func (cli *commandLine) schedules(creds session.Credentials) error {
	ctx := context.Background()
	p, err := cli.courses.Login(ctx, creds)
	if err != nil {
		return err
	}
	list, err := cli.courses.ListSchedules(ctx, p.Token)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDAY\tTIME\tSEATS\tENROLLED")
	for _, s := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%v\n", s.ID, s.Name, s.DayOfWeek, s.TimeSlot, s.CapacityLabel(), s.IsEnrolled)
	}
	return w.Flush()
}

func (cli *commandLine) resetFixtures() error {
	if !cli.courses.ResetDatabase(context.Background()) {
		return errResetFailed
	}
	fmt.Fprintln(cli.out, "Courses API fixtures restored")
	return nil
}
