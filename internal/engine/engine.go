// Package engine orchestrates synchronization between the in-memory parameter
// model and the on-disk stores: loading all parameters at startup and writing
// the full model back on demand, aggregating partial failures instead of
// aborting.
package engine

import (
	"fmt"
	"math"

	"pipetune/internal/config"
	"pipetune/internal/registry"
	"pipetune/internal/store"
	"pipetune/pkg/logging"

	"github.com/google/uuid"
)

// WriteResult records the outcome of one attempted parameter write.
type WriteResult struct {
	Key       string
	Succeeded bool
	Detail    string // diagnostic for failures, empty on success
}

// Report aggregates the write results of one write-back invocation.
type Report struct {
	SessionID string
	Results   []WriteResult
}

// Ok reports whether every parameter write succeeded.
func (r Report) Ok() bool {
	for _, res := range r.Results {
		if !res.Succeeded {
			return false
		}
	}
	return true
}

// Failed returns only the failed results.
func (r Report) Failed() []WriteResult {
	var out []WriteResult
	for _, res := range r.Results {
		if !res.Succeeded {
			out = append(out, res)
		}
	}
	return out
}

// Engine owns the store handles for the lifetime of a session, preserving
// each handle's backed-up state across write-backs so the backup-once
// guarantee holds.
type Engine struct {
	reg     *registry.Registry
	cfg     config.ProjectConfig
	backups *store.BackupManager
	handles map[registry.StoreID]*store.Handle

	yamlDoc store.YAMLAdapter
	jsonDoc store.JSONAdapter
	pattern *store.PatternAdapter
}

// New wires an engine for the given registry and project layout.
func New(reg *registry.Registry, cfg config.ProjectConfig) *Engine {
	var anchors []store.Anchor
	for _, p := range reg.All() {
		if p.Store != registry.StoreResearcher {
			continue
		}
		kind := store.ValueInt
		if p.Kind == registry.KindFloat || p.Scale {
			kind = store.ValueFloat
		}
		anchors = append(anchors, store.Anchor{Key: p.Path, Kind: kind})
	}

	return &Engine{
		reg:     reg,
		cfg:     cfg,
		backups: store.NewBackupManager(),
		handles: map[registry.StoreID]*store.Handle{
			registry.StorePipeline:   store.NewHandle(store.FormatYAML, cfg.PipelinePath()),
			registry.StoreForge:      store.NewHandle(store.FormatYAML, cfg.ForgePath()),
			registry.StoreResearcher: store.NewHandle(store.FormatPattern, cfg.ResearcherPath()),
			registry.StoreAgents:     store.NewHandle(store.FormatJSON, cfg.AgentsPath()),
		},
		pattern: store.NewPatternAdapter(anchors),
	}
}

// storeOrder fixes iteration over the handles for deterministic behavior.
var storeOrder = []registry.StoreID{
	registry.StorePipeline,
	registry.StoreForge,
	registry.StoreResearcher,
	registry.StoreAgents,
}

// LoadAll populates a ParameterSet from the stores. Every parameter starts at
// its declared default; a missing file, absent key or unparsable store
// degrades only the parameters it backs, and out-of-range stored values are
// clamped before they become observable.
func (e *Engine) LoadAll() registry.ParameterSet {
	set := e.reg.NewSet()

	patternValues, err := e.pattern.Load(e.handles[registry.StoreResearcher].Path)
	if err != nil {
		logging.Warn("Engine", "Could not load %s: %v", e.handles[registry.StoreResearcher].Path, err)
		patternValues = map[string]float64{}
	}

	for _, p := range e.reg.All() {
		switch p.Store {
		case registry.StoreResearcher:
			if v, ok := patternValues[p.Path]; ok {
				set[p.Key] = p.FromStored(v)
			}
		default:
			adapter, handle := e.documentAdapter(p.Store)
			v, found, err := adapter.Load(handle.Path, p.Path)
			if err != nil {
				logging.Warn("Engine", "Could not load %s from %s: %v", p.Key, handle.Path, err)
				continue
			}
			if found {
				set[p.Key] = p.FromStored(v)
			}
		}
	}

	logging.Info("Engine", "Loaded %d parameters", len(set))
	return set
}

// WriteBack persists the full model to all stores. Backups are ensured first
// for every distinct target (idempotent per session); then every parameter
// write proceeds independently, so one failure never blocks the rest. A
// backup failure aborts only that file's parameters.
func (e *Engine) WriteBack(set registry.ParameterSet) Report {
	report := Report{SessionID: uuid.NewString()}

	backupFailed := make(map[registry.StoreID]error)
	for _, sid := range storeOrder {
		if err := e.backups.EnsureBackup(e.handles[sid]); err != nil {
			logging.Error("Engine", err, "Backup failed for %s", e.handles[sid].Path)
			backupFailed[sid] = err
		}
	}

	patternOutcome := e.writePatternStore(set, backupFailed)

	for _, p := range e.reg.All() {
		if err, failed := backupFailed[p.Store]; failed {
			report.Results = append(report.Results, WriteResult{
				Key:    p.Key,
				Detail: err.Error(),
			})
			continue
		}

		switch p.Store {
		case registry.StoreResearcher:
			report.Results = append(report.Results, patternOutcome[p.Key])
		default:
			report.Results = append(report.Results, e.writeDocumentParam(p, set))
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		logging.Warn("Engine", "Write-back %s completed with %d of %d failures",
			report.SessionID, len(failed), len(report.Results))
	} else {
		logging.Info("Engine", "Write-back %s completed, %d parameters written",
			report.SessionID, len(report.Results))
	}
	return report
}

// writePatternStore applies all researcher-store substitutions and persists
// the file once. Anchor misses are per-key recoverable: the file is still
// written for the keys that matched.
func (e *Engine) writePatternStore(set registry.ParameterSet, backupFailed map[registry.StoreID]error) map[string]WriteResult {
	outcome := make(map[string]WriteResult)
	if _, failed := backupFailed[registry.StoreResearcher]; failed {
		return outcome
	}

	handle := e.handles[registry.StoreResearcher]
	values := make(map[string]float64)
	pathToKey := make(map[string]string)
	for _, p := range e.reg.All() {
		if p.Store != registry.StoreResearcher {
			continue
		}
		values[p.Path] = p.ToStored(e.valueFor(p, set))
		pathToKey[p.Path] = p.Key
		outcome[p.Key] = WriteResult{Key: p.Key, Succeeded: true}
	}

	missing, err := e.pattern.WriteFile(handle.Path, values)
	if err != nil {
		for _, key := range pathToKey {
			outcome[key] = WriteResult{Key: key, Detail: err.Error()}
		}
		return outcome
	}

	for _, path := range missing {
		key := pathToKey[path]
		miss := &store.AnchorNotFoundError{Path: handle.Path, Key: path}
		logging.Warn("Engine", "%v", miss)
		outcome[key] = WriteResult{Key: key, Detail: miss.Error()}
	}
	return outcome
}

// writeDocumentParam writes one parameter into its document store.
func (e *Engine) writeDocumentParam(p registry.Parameter, set registry.ParameterSet) WriteResult {
	adapter, handle := e.documentAdapter(p.Store)
	if err := adapter.Write(handle.Path, p.Path, storedValue(p, e.valueFor(p, set))); err != nil {
		logging.Error("Engine", err, "Failed to write %s", p.Key)
		return WriteResult{Key: p.Key, Detail: err.Error()}
	}
	logging.Debug("Engine", "Wrote %s -> %s", p.Key, handle.Path)
	return WriteResult{Key: p.Key, Succeeded: true}
}

func (e *Engine) documentAdapter(sid registry.StoreID) (store.DocumentAdapter, *store.Handle) {
	handle := e.handles[sid]
	if handle.Format == store.FormatJSON {
		return e.jsonDoc, handle
	}
	return e.yamlDoc, handle
}

// valueFor reads the parameter's current value from the set, falling back to
// the declared default for keys the caller did not supply.
func (e *Engine) valueFor(p registry.Parameter, set registry.ParameterSet) float64 {
	if v, ok := set[p.Key]; ok {
		return p.Clamp(v)
	}
	return p.Clamp(p.Default)
}

// storedValue converts a UI-domain value to the native numeric written into a
// document store: integers stay integers, scaled parameters become fractions.
func storedValue(p registry.Parameter, v float64) any {
	stored := p.ToStored(v)
	if p.Kind == registry.KindInt && !p.Scale {
		return int64(math.Round(stored))
	}
	return stored
}

// Describe returns a short human description of the engine's targets, used by
// the CLI for --debug output.
func (e *Engine) Describe() string {
	return fmt.Sprintf("pipeline=%s forge=%s researcher=%s agents=%s",
		e.handles[registry.StorePipeline].Path,
		e.handles[registry.StoreForge].Path,
		e.handles[registry.StoreResearcher].Path,
		e.handles[registry.StoreAgents].Path)
}

// StorePaths returns the distinct target files in deterministic order, for
// callers that need to watch or inspect them.
func (e *Engine) StorePaths() []string {
	paths := make([]string, 0, len(storeOrder))
	for _, sid := range storeOrder {
		paths = append(paths, e.handles[sid].Path)
	}
	return paths
}
