// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Conflict resolution errors
	CodeUnknownConflictType Code = "UNKNOWN_CONFLICT_TYPE"
	CodeMissingRuleConfig   Code = "MISSING_RULE_CONFIG"
	CodeNoInvolvedEntities  Code = "NO_INVOLVED_ENTITIES"
	CodeNoCheckType         Code = "NO_CHECK_TYPE"
	CodeRuleEngineError     Code = "RULE_ENGINE_ERROR"
	CodeNoGuildID           Code = "NO_GUILD_ID"
	CodeNoRuleDefinition    Code = "NO_RULE_DEFINITION"

	// Storage errors
	CodePersistenceError Code = "PERSISTENCE_ERROR"
	CodeNotFound         Code = "NOT_FOUND"

	// Dice/mechanics errors
	CodeDiceMissing         Code = "DICE_MISSING"
	CodeDiceInvalidSpec     Code = "DICE_INVALID_SPEC"
	CodeDiceInvalidNotation Code = "DICE_INVALID_NOTATION"
)
