package service

import (
	"github.com/uniterm/terminarz-backend/internal/model"
)

// transitions maps each actor role to the status transitions it may
// trigger. The engine itself does not enforce this table on UpdateStatus;
// the HTTP layer consults CanTransition before calling the engine, so the
// rule stays unit-testable without any persistence or transport.
var transitions = map[model.Role]map[model.TermStatus][]model.TermStatus{
	model.RoleLecturer: {
		model.TermStatusDraft:             {model.TermStatusProposedByLecturer},
		model.TermStatusProposedByStudent: {model.TermStatusApproved, model.TermStatusRejected},
	},
	model.RoleStarosta: {
		model.TermStatusDraft:              {model.TermStatusProposedByStudent},
		model.TermStatusProposedByLecturer: {model.TermStatusApproved, model.TermStatusRejected},
	},
	model.RoleDean: {
		model.TermStatusDraft:              {model.TermStatusApproved, model.TermStatusRejected},
		model.TermStatusProposedByLecturer: {model.TermStatusApproved, model.TermStatusRejected},
		model.TermStatusProposedByStudent:  {model.TermStatusApproved, model.TermStatusRejected},
		model.TermStatusConflict:           {model.TermStatusApproved, model.TermStatusRejected},
		model.TermStatusApproved:           {model.TermStatusFinalized, model.TermStatusRejected},
	},
}

// CanTransition reports whether the given actor role may move a term from
// one status to another. Finalized and Rejected are terminal: no role has
// a transition out of them.
func CanTransition(role model.Role, from, to model.TermStatus) bool {
	for _, allowed := range transitions[role][from] {
		if allowed == to {
			return true
		}
	}
	return false
}
