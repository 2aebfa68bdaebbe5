package auth

import (
	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/dmitrijs2005/salaries/internal/server/models"
)

// ForbiddenDetail is the message returned to non-admin callers.
const ForbiddenDetail = "Недостаточно прав"

// RequireAdmin lets admin callers through and rejects everyone else with
// common.ErrorForbidden. It must run before the guarded action touches
// anything.
func RequireAdmin(caller *models.User) error {
	if caller != nil && caller.IsAdmin() {
		return nil
	}
	return common.NewDetailError(common.ErrorForbidden, ForbiddenDetail)
}
