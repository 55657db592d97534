// Package logging provides pipetune's structured logging built on the
// standard slog package.
//
// Log entries carry a subsystem identifier so output can be filtered by
// component (Registry, Store, Engine, Launcher, Watcher). Initialize once at
// startup with InitForCLI, then log through the level functions:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Engine", "Loaded %d parameters", n)
//	logging.Error("Store", err, "Failed to write %s", path)
//
// Level filtering happens at the handler, so messages below the configured
// level cost no allocation.
package logging
