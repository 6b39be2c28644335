package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// coursesAPI is the part of the courses API client the CLI talks to.
type coursesAPI interface {
	Login(ctx context.Context, creds session.Credentials) (session.Profile, error)
	ListSchedules(ctx context.Context, token string) ([]schedule.Schedule, error)
	ResetDatabase(ctx context.Context) bool
}

type commandLine struct {
	out     io.Writer
	courses coursesAPI
	openDB  func() (*sql.DB, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]          - run a database migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  login -username USERNAME        - check credentials against the courses API")
	fmt.Fprintln(cli.out, "  schedules -username USERNAME    - list the schedules a user sees")
	fmt.Fprintln(cli.out, "  reset-fixtures                  - restore the fixture data of the courses API")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginCmd.SetOutput(cli.out)
	loginUname := loginCmd.String("username", "", "The user's username. The password will be prompted next.")

	schedulesCmd := flag.NewFlagSet("schedules", flag.ContinueOnError)
	schedulesCmd.SetOutput(cli.out)
	schedulesUname := schedulesCmd.String("username", "", "The user's username. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			fmt.Fprintln(cli.out, "Usage: migrate up|up-by-one|up-to|down|down-to|redo|reset|status|version|create|fix [ARGS]")
			return errHelp
		}
		return cli.migrate(args[2:])
	case "login":
		creds, err := cli.readCredentials(loginCmd, loginUname, args[2:])
		if err != nil {
			return err
		}
		return cli.login(creds)
	case "schedules":
		creds, err := cli.readCredentials(schedulesCmd, schedulesUname, args[2:])
		if err != nil {
			return err
		}
		return cli.schedules(creds)
	case "reset-fixtures":
		return cli.resetFixtures()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readCredentials(cmd *flag.FlagSet, uname *string, args []string) (session.Credentials, error) {
	if err := cmd.Parse(args); err != nil {
		return session.Credentials{}, err
	}
	if *uname == "" {
		cmd.Usage()
		return session.Credentials{}, errHelp
	}
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return session.Credentials{}, err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return session.Credentials{}, errHelp
	}
	return session.Credentials{Username: *uname, Password: string(pwd)}, nil
}
