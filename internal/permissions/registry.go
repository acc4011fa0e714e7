package permissions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
)

// ErrUnknownAction indicates an action lookup failed because it has not been registered.
var ErrUnknownAction = errors.New("permission: unknown action")

// Rule evaluates one action. Evaluator methods satisfy it through method expressions.
type Rule func(e *Evaluator, ctx context.Context, p auth.Principal, resourceID string) (Decision, error)

// Action describes a guarded operation on a resource kind.
type Action struct {
	ID          string
	Resource    string
	Description string
	Rule        Rule
}

type actionRegistry struct {
	mu      sync.RWMutex
	actions map[string]*Action
}

var globalRegistry = &actionRegistry{
	actions: make(map[string]*Action),
}

var (
	errNilAction   = errors.New("permission: nil action")
	errEmptyID     = errors.New("permission: action id is required")
	errNilRule     = errors.New("permission: action rule is required")
	errDuplicateID = errors.New("permission: action already registered")
)

// Register adds an action to the global registry.
func Register(action *Action) error {
	if action == nil {
		return errNilAction
	}

	id := strings.TrimSpace(action.ID)
	if id == "" {
		return errEmptyID
	}
	if action.Rule == nil {
		return errNilRule
	}

	def := *action
	def.ID = id
	def.Resource = strings.TrimSpace(def.Resource)

	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if _, exists := globalRegistry.actions[id]; exists {
		return fmt.Errorf("%w: %s", errDuplicateID, id)
	}

	globalRegistry.actions[id] = &def
	return nil
}

// Get returns a copy of the action when registered.
func Get(id string) (*Action, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	action, ok := globalRegistry.actions[id]
	if !ok {
		return nil, false
	}
	cp := *action
	return &cp, true
}

// All returns every registered action ordered by ID.
func All() []*Action {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	out := make([]*Action, 0, len(globalRegistry.actions))
	for _, action := range globalRegistry.actions {
		cp := *action
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByResource gathers the actions registered for a resource kind.
func ByResource(resource string) []*Action {
	resource = strings.TrimSpace(resource)
	var out []*Action
	for _, action := range All() {
		if action.Resource == resource {
			out = append(out, action)
		}
	}
	return out
}
