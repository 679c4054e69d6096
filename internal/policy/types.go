package policy

import (
	"fmt"

	"quill/internal/domain/models"
)

// Cedar schema names for the notebooks application. One set of constants
// keeps the write path (policy statements) and read path (grant filters)
// speaking about the same entities.
const (
	EntityTypeUser     = "NotebooksApp::User"
	EntityTypeNotebook = "NotebooksApp::Notebook"
	ActionType         = "NotebooksApp::Action"

	// ActionReadNotebook is the fixed action a share grants.
	ActionReadNotebook = "getNotebookById"
)

// Route action ids evaluated by the request authorizer. They mirror the API's
// operation ids.
const (
	ActionListNotebooks  = "listNotebooks"
	ActionCreateNotebook = "createNotebook"
	ActionPutNotebook    = "putNotebook"
	ActionDeleteNotebook = "deleteNotebook"
	ActionShareNotebook  = "shareNotebook"
)

// permitStatement renders the static Cedar policy for one grant.
func permitStatement(principal models.PrincipalID, action, notebookID string) string {
	return fmt.Sprintf(
		`permit(principal == %s::%q, action == %s::%q, resource == %s::%q);`,
		EntityTypeUser, principal.String(),
		ActionType, action,
		EntityTypeNotebook, notebookID,
	)
}
