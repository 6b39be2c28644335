package main

import (
	"github.com/pressly/goose/v3"

	appfs "github.com/Eddy-Prime/SE-Complete-Project/fs"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	db, err := cli.openDB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(appfs.FS)
	if err = goose.SetDialect("postgres"); err != nil {
		return err
	}
	return gooseRunFunc(args[0], db, "migrations", args[1:]...)
}
