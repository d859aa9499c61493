// Package security contains the core domain of the sentinel: the security
// state enum, the closed Event and Command variants, and the Machine that
// turns (state, event) into (next state, commands).
//
// The Machine is a pure transition function: it performs no I/O, reads no
// clock and takes no locks. Events it does not care about in the current
// state are accepted as no-ops, which models real sensor chatter. All
// side effects are expressed as Commands for the caller to execute.
package security
