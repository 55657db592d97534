// Package registry declares the tunable pipeline parameters and owns the
// in-memory parameter model.
//
// Each Parameter names one numeric knob, its value domain, and the store and
// location where it is persisted. Declarations are immutable after init; the
// live values travel in a ParameterSet, which is populated by the
// synchronization engine at load time and mutated only by the caller between
// load and write-back.
//
// All values in a ParameterSet are expressed in the parameter's UI domain.
// Parameters declared with Scale map a 0-100 slider position onto a stored
// 0.00-1.00 fraction; ToStored/FromStored perform that transform at the store
// boundary so the rest of the system never sees mixed domains.
package registry
