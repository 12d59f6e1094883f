// Package events provides types and interfaces for in-process domain events.
//
// Services emit a DomainEvent when a dependency edge is created or deleted,
// when a module or learning item changes status, and when an item's cached
// progress moves. Handlers are registered on an emitter so services never
// know who listens.
package events
