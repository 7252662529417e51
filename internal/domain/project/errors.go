package project

import "errors"

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrAlreadyAssigned  = errors.New("employee already assigned to project")
	ErrMemberNotFound   = errors.New("employee is not a member of project")
	ErrProjectArchived  = errors.New("project is archived")
	ErrDuplicateProject = errors.New("project name already exists")
)
