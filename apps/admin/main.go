package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/services/backend"
	logsvc "github.com/Eddy-Prime/SE-Complete-Project/services/logger"
	"github.com/Eddy-Prime/SE-Complete-Project/storage/database"
)

var logger *log.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.NewStdLogger(conf, "ADMIN : ")
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(false)

	var db *sql.DB
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	// start CLI
	cli := commandLine{
		out:     os.Stdout,
		courses: backend.NewClient(conf, nil, appLogger),
		openDB: func() (*sql.DB, error) {
			if db != nil {
				return db, nil
			}
			if err := database.CreateIfNotExist(conf); err != nil {
				return nil, err
			}
			xdb, err := database.Open(conf)
			if err != nil {
				return nil, err
			}
			db = xdb.DB
			return db, nil
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
