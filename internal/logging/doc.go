// Package logging builds the zap logger from config.LogConfig.
//
// Production mode writes JSON lines; development mode writes coloured
// console lines and adds stack traces from warn upwards. Both go to stderr
// because stdout belongs to the scripts the runtime executes.
//
// Example Usage:
//
//	log, err := logging.New(cfg.Logging)
//	if err != nil {
//		return err
//	}
//	log.Named("fs").Debug("op failed", zap.String("op", "readFile"), zap.Error(err))
package logging
