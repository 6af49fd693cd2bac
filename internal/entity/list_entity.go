package entity

// Persisted list keys.
const (
	ListKeyNotes = "axon_notes"
	ListKeyTodos = "axon_todos"
)

// Note is one entry of the notes list. Timestamp is unix milliseconds.
type Note struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"ts"`
}

// Todo is one entry of the todo list. Timestamp is unix milliseconds.
type Todo struct {
	Task      string `json:"task"`
	Done      bool   `json:"done"`
	Timestamp int64  `json:"ts"`
}
