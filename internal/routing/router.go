// Package routing resolves, per message, which delegate checker is
// authoritative for pre-verification and which watcher set guards its fraud
// window. Policies are capability implementations of the Router interface;
// the verification core depends only on the interface.
package routing

import (
	"bytes"

	"github.com/persimmonlabs/optimist/internal/crypto"
	"github.com/persimmonlabs/optimist/internal/message"
)

// Params are the watcher parameters the provider derives from message
// content. They must be a deterministic function of the message as observed
// by the verification core.
type Params struct {
	// Watchers is the ordered set of identities allowed to flag fraud for
	// this message. Fraud-proof matching relies on the ordering.
	Watchers []crypto.WatcherKey
	// Threshold is the maximum tolerated fraud-flag count; once reached,
	// finalization is blocked.
	Threshold uint8
	// FraudWindow is the number of height units between pre-verification and
	// the earliest possible finalization.
	FraudWindow uint32
}

// HasWatcher reports whether the identity belongs to the watcher set.
func (p Params) HasWatcher(identity crypto.WatcherKey) bool {
	for _, w := range p.Watchers {
		if bytes.Equal(w, identity) {
			return true
		}
	}
	return false
}

// Router is the per-message routing capability.
type Router interface {
	// ResolveDelegate returns the checker authoritative for the message.
	ResolveDelegate(msg message.Message) (Checker, error)
	// WatcherParameters returns the watcher set, threshold and fraud-window
	// duration applicable to the message.
	WatcherParameters(msg message.Message) (Params, error)
	// KnownWatcher reports whether the identity appears in the watcher set of
	// any route this router serves. It gates fraud flagging, which is not
	// message-scoped.
	KnownWatcher(identity crypto.WatcherKey) bool
}

// StaticRouter applies one checker and one watcher set to every message.
type StaticRouter struct {
	checker Checker
	params  Params
}

func NewStaticRouter(checker Checker, params Params) *StaticRouter {
	return &StaticRouter{checker: checker, params: params}
}

func (r *StaticRouter) ResolveDelegate(message.Message) (Checker, error) {
	if r.checker == nil {
		return nil, ErrNoRoute
	}
	return r.checker, nil
}

func (r *StaticRouter) WatcherParameters(message.Message) (Params, error) {
	return r.params, nil
}

func (r *StaticRouter) KnownWatcher(identity crypto.WatcherKey) bool {
	return r.params.HasWatcher(identity)
}

// Route pairs a checker with watcher parameters for one origin domain.
type Route struct {
	Checker Checker
	Params  Params
}

// DomainRouter selects the route by the message's origin domain.
type DomainRouter struct {
	routes map[uint32]Route
}

func NewDomainRouter(routes map[uint32]Route) *DomainRouter {
	return &DomainRouter{routes: routes}
}

func (r *DomainRouter) route(msg message.Message) (Route, error) {
	origin, err := msg.Origin()
	if err != nil {
		return Route{}, err
	}
	route, ok := r.routes[origin]
	if !ok {
		return Route{}, ErrNoRoute
	}
	return route, nil
}

func (r *DomainRouter) ResolveDelegate(msg message.Message) (Checker, error) {
	route, err := r.route(msg)
	if err != nil {
		return nil, err
	}
	return route.Checker, nil
}

func (r *DomainRouter) WatcherParameters(msg message.Message) (Params, error) {
	route, err := r.route(msg)
	if err != nil {
		return Params{}, err
	}
	return route.Params, nil
}

func (r *DomainRouter) KnownWatcher(identity crypto.WatcherKey) bool {
	for _, route := range r.routes {
		if route.Params.HasWatcher(identity) {
			return true
		}
	}
	return false
}
