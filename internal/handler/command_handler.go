package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/F4ria/LiteToDoBot/internal/model"
	"github.com/F4ria/LiteToDoBot/internal/repository"
)

// TaskStore is the persistence surface the command handler drives.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	List(ctx context.Context, userID int64, filter repository.StatusFilter) ([]model.Task, error)
	FindByID(ctx context.Context, userID, id int64) (*model.Task, error)
	UpdateDescription(ctx context.Context, userID, id int64, description string) (*model.Task, error)
	UpdateNote(ctx context.Context, userID, id int64, note string) (*model.Task, error)
	Complete(ctx context.Context, userID, id int64) (*model.Task, error)
}

// Message is one decoded inbound command: who sent what, where. The
// transport has already authenticated the sender.
type Message struct {
	UserID   int64
	UserName string
	ChatID   int64
	Text     string
}

// CommandHandler parses command text, dispatches to the task store and
// formats the reply. It is stateless apart from its store reference.
type CommandHandler struct {
	store TaskStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewCommandHandler(store TaskStore, log zerolog.Logger) *CommandHandler {
	return &CommandHandler{store: store, log: log, now: time.Now}
}

// Handle executes one command and returns the reply text. Commands are
// matched on exact first-token equality, never by prefix, so "list" cannot
// swallow "list_done". Storage failures are logged and reported with a
// generic message; replies never carry internals.
func (h *CommandHandler) Handle(ctx context.Context, msg Message) string {
	name, rest := splitCommand(strings.TrimSpace(msg.Text))

	log := h.log.With().
		Str("command_id", uuid.NewString()).
		Int64("user_id", msg.UserID).
		Str("command", name).
		Logger()

	var reply string
	var err error
	switch name {
	case "add":
		reply, err = h.add(ctx, msg, rest)
	case "list":
		reply, err = h.list(ctx, msg.UserID, repository.FilterOpen)
	case "list_done":
		reply, err = h.list(ctx, msg.UserID, repository.FilterDone)
	case "list_all":
		reply, err = h.list(ctx, msg.UserID, repository.FilterAny)
	case "edit":
		reply, err = h.edit(ctx, msg.UserID, rest)
	case "complete":
		reply, err = h.complete(ctx, msg.UserID, rest)
	case "note":
		reply, err = h.note(ctx, msg.UserID, rest)
	case "help", "start":
		reply = replyWelcome
	default:
		reply = replyUnknownCommand
	}

	if err != nil {
		log.Error().Err(err).Msg("command failed")
		return replyFailure
	}

	log.Debug().Msg("command handled")
	return reply
}

func (h *CommandHandler) add(ctx context.Context, msg Message, rest string) (string, error) {
	if rest == "" {
		return replyUsageAdd, nil
	}

	task := &model.Task{
		UserID:      msg.UserID,
		UserName:    msg.UserName,
		ChatID:      msg.ChatID,
		Description: rest,
	}
	if err := h.store.Create(ctx, task); err != nil {
		return "", err
	}
	return "已添加待办事项: \n" + task.Display(h.now()), nil
}

func (h *CommandHandler) list(ctx context.Context, userID int64, filter repository.StatusFilter) (string, error) {
	tasks, err := h.store.List(ctx, userID, filter)
	if err != nil {
		return "", err
	}
	if len(tasks) == 0 {
		return listEmptyReplies[filter], nil
	}

	now := h.now()
	blocks := make([]string, len(tasks))
	for i := range tasks {
		blocks[i] = tasks[i].Display(now)
	}
	return listHeaders[filter] + "\n" + strings.Join(blocks, "\n"), nil
}

func (h *CommandHandler) edit(ctx context.Context, userID int64, rest string) (string, error) {
	id, text, ok := splitIDArg(rest)
	if !ok || text == "" {
		return replyUsageEdit, nil
	}

	old, err := h.store.FindByID(ctx, userID, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return replyInvalidTaskID, nil
	}
	if err != nil {
		return "", err
	}

	task, err := h.store.UpdateDescription(ctx, userID, id, text)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return replyInvalidTaskID, nil
	}
	if err != nil {
		return "", err
	}

	reply := "已修改待办事项: \n" + task.Display(h.now())
	if old.Description != "" {
		reply += "\n任务内容(旧): " + old.Description
	}
	return reply, nil
}

func (h *CommandHandler) note(ctx context.Context, userID int64, rest string) (string, error) {
	id, text, ok := splitIDArg(rest)
	if !ok || text == "" {
		return replyUsageNote, nil
	}

	old, err := h.store.FindByID(ctx, userID, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return replyInvalidTaskID, nil
	}
	if err != nil {
		return "", err
	}

	task, err := h.store.UpdateNote(ctx, userID, id, text)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return replyInvalidTaskID, nil
	}
	if err != nil {
		return "", err
	}

	reply := "已添加备注到任务: \n" + task.Display(h.now())
	if old.Note != "" {
		reply += "\n备注(旧): " + old.Note
	}
	return reply, nil
}

func (h *CommandHandler) complete(ctx context.Context, userID int64, rest string) (string, error) {
	// Trailing text after the id is ignored, only the id matters here.
	id, _, ok := splitIDArg(rest)
	if !ok {
		return replyUsageComplete, nil
	}

	task, err := h.store.Complete(ctx, userID, id)
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		return replyInvalidTaskID, nil
	case errors.Is(err, repository.ErrTaskAlreadyDone):
		return "任务已完成，无需重复标记: \n" + task.Display(h.now()), nil
	case err != nil:
		return "", err
	}
	return "已标记任务为完成: \n" + task.Display(h.now()), nil
}
