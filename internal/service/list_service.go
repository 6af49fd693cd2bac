package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"axon-assistant/internal/dto"
	"axon-assistant/internal/entity"
	"axon-assistant/internal/repository/contract"
)

type IListService interface {
	AddNote(ctx context.Context, text string) (*entity.Note, error)
	AddTodo(ctx context.Context, task string) (*entity.Todo, error)
	Notes(ctx context.Context) ([]dto.NoteResponse, error)
	Todos(ctx context.Context) ([]dto.TodoResponse, error)
}

type listService struct {
	repo contract.ListRepository
	now  func() time.Time
}

func NewListService(repo contract.ListRepository) IListService {
	return &listService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *listService) AddNote(ctx context.Context, text string) (*entity.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &EmptyInputError{Command: "note"}
	}
	note := entity.Note{Text: text, Timestamp: s.now().UnixMilli()}
	if err := prepend(ctx, s.repo, entity.ListKeyNotes, note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *listService) AddTodo(ctx context.Context, task string) (*entity.Todo, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, &EmptyInputError{Command: "todo"}
	}
	todo := entity.Todo{Task: task, Done: false, Timestamp: s.now().UnixMilli()}
	if err := prepend(ctx, s.repo, entity.ListKeyTodos, todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (s *listService) Notes(ctx context.Context) ([]dto.NoteResponse, error) {
	notes, err := load[entity.Note](ctx, s.repo, entity.ListKeyNotes)
	if err != nil {
		return nil, err
	}
	res := make([]dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, dto.NoteResponse{Text: n.Text, Timestamp: n.Timestamp})
	}
	return res, nil
}

func (s *listService) Todos(ctx context.Context) ([]dto.TodoResponse, error) {
	todos, err := load[entity.Todo](ctx, s.repo, entity.ListKeyTodos)
	if err != nil {
		return nil, err
	}
	res := make([]dto.TodoResponse, 0, len(todos))
	for _, t := range todos {
		res = append(res, dto.TodoResponse{Task: t.Task, Done: t.Done, Timestamp: t.Timestamp})
	}
	return res, nil
}

// prepend stores item at the front of the list, most recent first.
func prepend[T any](ctx context.Context, repo contract.ListRepository, key string, item T) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := repo.Prepend(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func load[T any](ctx context.Context, repo contract.ListRepository, key string) ([]T, error) {
	raw, err := repo.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	list := make([]T, 0)
	if len(raw) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return list, nil
}
