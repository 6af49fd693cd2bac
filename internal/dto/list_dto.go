package dto

type NoteResponse struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"ts"`
}

type TodoResponse struct {
	Task      string `json:"task"`
	Done      bool   `json:"done"`
	Timestamp int64  `json:"ts"`
}
