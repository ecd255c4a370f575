package dto

// SaveTodoRequest creates a todo.
type SaveTodoRequest struct {
	Task           string `json:"task" validate:"required,max=500"`
	ReceiveRequest string `json:"receiveRequest" validate:"max=100"`
}

// CheckTodoRequest sets the checked flag; the pointer distinguishes false from absent.
type CheckTodoRequest struct {
	CheckYn *bool `json:"checkYn" validate:"required"`
}
