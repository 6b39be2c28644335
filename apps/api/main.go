package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/Eddy-Prime/SE-Complete-Project/apps/api/echo"
	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/grading"
	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
	"github.com/Eddy-Prime/SE-Complete-Project/services/backend"
	emailsvc "github.com/Eddy-Prime/SE-Complete-Project/services/email"
	logsvc "github.com/Eddy-Prime/SE-Complete-Project/services/logger"
	boltstore "github.com/Eddy-Prime/SE-Complete-Project/storage/bolt"
	"github.com/Eddy-Prime/SE-Complete-Project/storage/database"
	inmemdb "github.com/Eddy-Prime/SE-Complete-Project/storage/database/inmem"
	sqlxrepos "github.com/Eddy-Prime/SE-Complete-Project/storage/database/sqlx"
	"github.com/Eddy-Prime/SE-Complete-Project/storage/files"
	"github.com/Eddy-Prime/SE-Complete-Project/storage/sessions"
)

type repositories struct {
	changes assignment.ChangeLogRepository
	records grading.RecordRepository
	history submission.HistoryRepository
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()
	ctx := context.Background()

	// set up loggers
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf, "API : "), conf)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf, "DB : "), conf)
	dbLogger.Enable(!conf.Debug)

	// set up storage
	repos, closeDB, err := setUpRepositories(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = closeDB(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	boltPath := conf.BoltPath
	if boltPath == "" {
		boltPath = "data/drafts.db"
	}
	drafts, err := boltstore.Open(boltPath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening drafts store: %v", err), err)
	}
	defer func() { _ = drafts.Close() }()

	var sessionStore session.Store
	if conf.Redis.Address != "" {
		rs, err := sessions.NewRedisStore(ctx, conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
		}
		defer func() { _ = rs.Close() }()
		sessionStore = rs
	} else {
		logger.Warn("redis.address not set: sessions are kept in memory")
		sessionStore = sessions.NewMemoryStore(conf.Redis.SessionTTL)
	}

	var fileStore submission.FileStore
	var filesHandler http.Handler
	if conf.B2.Bucket != "" {
		fileStore, err = files.NewB2Store(ctx, conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("connecting to b2: %v", err), err)
		}
	} else {
		mem := files.NewMemoryStore("/files")
		fileStore, filesHandler = mem, mem
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	client := backend.NewClient(conf, nil, logger)
	assignmentSvc := assignment.NewService(client, client, repos.changes, mailSvc, logger)
	submissionSvc := submission.NewService(
		client, assignmentSvc, drafts, repos.history, fileStore, submission.NewPolicy(conf), logger,
	)
	gradingSvc := grading.NewService(
		assignmentSvc, submissionSvc, client, repos.records, mailSvc, grading.NewPolicy(conf), logger,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			SessionSvc:    session.NewService(client, sessionStore, logger),
			ScheduleSvc:   schedule.NewService(client, logger),
			AssignmentSvc: assignmentSvc,
			SubmissionSvc: submissionSvc,
			GradingSvc:    gradingSvc,
			Validate:      validate,
			Translator:    translator,
			Files:         filesHandler,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpRepositories uses postgres when database.host is set and process memory otherwise.
func setUpRepositories(conf *core.Config) (repositories, func() error, error) {
	if conf.Database.Host == "" {
		db := inmemdb.Open()
		return repositories{
			changes: inmemdb.NewChangeLogRepository(db),
			records: inmemdb.NewRecordRepository(db),
			history: inmemdb.NewHistoryRepository(db),
		}, func() error { return nil }, nil
	}

	db, err := setUpDB(conf)
	if err != nil {
		return repositories{}, nil, err
	}
	return repositories{
		changes: sqlxrepos.NewChangeLogRepository(db),
		records: sqlxrepos.NewRecordRepository(db),
		history: sqlxrepos.NewHistoryRepository(db),
	}, db.Close, nil
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
