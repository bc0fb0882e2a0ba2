package statemachine

import (
	"errors"

	"bistroboard/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string // "vendor"
}

// validTransitions is the authoritative state machine definition.
// Only the vendor party advances orders: pending → confirmed → fulfilled.
var validTransitions = []Transition{
	{From: models.OrderPending, To: models.OrderConfirmed, Actor: "vendor"},
	{From: models.OrderConfirmed, To: models.OrderFulfilled, Actor: "vendor"},
	// A vendor may fulfill directly without an explicit confirmation step
	{From: models.OrderPending, To: models.OrderFulfilled, Actor: "vendor"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

var validStatuses = map[models.OrderStatus]bool{
	models.OrderPending:   true,
	models.OrderConfirmed: true,
	models.OrderFulfilled: true,
}

// IsValidStatus reports whether s is one of the fixed status literals.
func IsValidStatus(s models.OrderStatus) bool {
	return validStatuses[s]
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	if !IsValidStatus(to) {
		return errors.New("invalid status '" + string(to) + "'. Must be one of: pending, confirmed, fulfilled")
	}
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " to " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
