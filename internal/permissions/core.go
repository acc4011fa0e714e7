package permissions

const (
	ActionAssignmentView   = "assignment.view"
	ActionAssignmentModify = "assignment.modify"
	ActionSubmissionView   = "submission.view"
	ActionSubmissionGrade  = "submission.grade"
	ActionSubmissionDelete = "submission.delete"
	ActionFileView         = "file.view"
	ActionFileDelete       = "file.delete"
)

func init() {
	actions := []*Action{
		{
			ID:          ActionAssignmentView,
			Resource:    "assignment",
			Description: "View an assignment",
			Rule:        (*Evaluator).CanAccessAssignment,
		},
		{
			ID:          ActionAssignmentModify,
			Resource:    "assignment",
			Description: "Edit or change the status of an assignment",
			Rule:        (*Evaluator).CanModifyAssignment,
		},
		{
			ID:          ActionSubmissionView,
			Resource:    "submission",
			Description: "View a submission",
			Rule:        (*Evaluator).CanAccessSubmission,
		},
		{
			ID:          ActionSubmissionGrade,
			Resource:    "submission",
			Description: "Grade a submission",
			Rule:        (*Evaluator).CanGradeSubmission,
		},
		{
			ID:          ActionSubmissionDelete,
			Resource:    "submission",
			Description: "Delete a submission",
			Rule:        (*Evaluator).CanDeleteSubmission,
		},
		{
			ID:          ActionFileView,
			Resource:    "file",
			Description: "Download an uploaded file",
			Rule:        (*Evaluator).CanAccessFile,
		},
		{
			ID:          ActionFileDelete,
			Resource:    "file",
			Description: "Delete an uploaded file",
			Rule:        (*Evaluator).CanDeleteFile,
		},
	}

	for _, action := range actions {
		if err := Register(action); err != nil {
			panic(err)
		}
	}
}
