// Package registry houses concrete implementations of the core.AgentStore.
// The interface itself (and the RegisteredAgent struct) live in the core
// package to centralize domain contracts. Keeping only implementations here
// lets higher level packages (engine, server) stay independent of concrete
// storage.
//
// Registrations are process-lifetime identities: they survive session stop
// and start cycles but are not persisted across restarts.
package registry
