// Package logging provides structured logging for finishcopy runs.
//
// Logs are JSON lines written through log/slog, one file per log
// directory, rotated by size. Every run of the copy workflow gets its own
// run id so that the entries of one run can be pulled back out later with
// the logs command.
//
// # Basic Usage
//
//	logger, err := logging.New(logging.Options{
//	    Dir:      "/path/to/logs",
//	    Level:    logging.LevelInfo,
//	    Rotation: logging.DefaultRotationConfig(),
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLog := logger.WithRun(runID).WithPhase("replicate")
//	runLog.Info("placed instance", "target_level", "Level 2", "group", 42)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"placed instance","run_id":"...","phase":"replicate","target_level":"Level 2","group":42}
//
// # Log Rotation
//
// When the active file would grow past RotationConfig.MaxSizeMB it is
// renamed to finishcopy.log.1, older backups shift up by one, and anything
// beyond MaxBackups is removed.
//
// # Reading Logs
//
//	entries, err := logging.ReadLog("/path/to/logs")
//	if err != nil {
//	    return err
//	}
//	failed := logging.FilterLogs(entries, logging.Filter{Level: "WARN", RunID: runID})
//	_ = logging.WriteText(os.Stdout, logging.Tail(failed, 20))
//
// ReadLog includes rotated backups and orders entries by time.
//
// # Testing
//
// Use [NopLogger] to discard output.
//
// # Configuration
//
//	logging:
//	  enabled: true
//	  level: info
//	  dir: ~/.local/state/finishcopy
//	  max_size_mb: 5
//	  max_backups: 3
package logging
