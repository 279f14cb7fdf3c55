/*
Package mediator provides a thin in-process dispatch engine over typed requests
and notifications. It resolves handlers through a Registry, threads requests
through composed pipeline behaviors, and fans notifications out under a
pluggable publish strategy, while remaining decoupled from registration and
transports via interfaces.
*/
package mediator
