package handler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/F4ria/LiteToDoBot/internal/model"
	"github.com/F4ria/LiteToDoBot/internal/repository"
)

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) List(ctx context.Context, userID int64, filter repository.StatusFilter) ([]model.Task, error) {
	args := m.Called(ctx, userID, filter)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskStore) FindByID(ctx context.Context, userID, id int64) (*model.Task, error) {
	args := m.Called(ctx, userID, id)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskStore) UpdateDescription(ctx context.Context, userID, id int64, description string) (*model.Task, error) {
	args := m.Called(ctx, userID, id, description)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskStore) UpdateNote(ctx context.Context, userID, id int64, note string) (*model.Task, error) {
	args := m.Called(ctx, userID, id, note)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskStore) Complete(ctx context.Context, userID, id int64) (*model.Task, error) {
	args := m.Called(ctx, userID, id)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func newTestHandler(store TaskStore) *CommandHandler {
	h := NewCommandHandler(store, zerolog.Nop())
	h.now = func() time.Time { return testNow }
	return h
}

func msg(text string) Message {
	return Message{UserID: 42, UserName: "Test User", ChatID: 1001, Text: text}
}

func openTask(id int64, description string) *model.Task {
	return &model.Task{
		ID:          id,
		UserID:      42,
		Description: description,
		Status:      model.StatusOpen,
		CreatedAt:   testNow.Add(-time.Hour),
		UpdatedAt:   testNow.Add(-time.Hour),
	}
}

func TestHandle_DispatchPrecedence(t *testing.T) {
	// "list" must never swallow "list_done" or "list_all"; matching is on
	// exact first-token equality.
	tests := []struct {
		text   string
		filter repository.StatusFilter
	}{
		{"/list", repository.FilterOpen},
		{"/list_done", repository.FilterDone},
		{"/list_all", repository.FilterAny},
		{"/list@LiteToDoBot", repository.FilterOpen},
		{"/list_done@LiteToDoBot", repository.FilterDone},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			store := new(MockTaskStore)
			store.On("List", mock.Anything, int64(42), tt.filter).Return(nil, nil)

			newTestHandler(store).Handle(context.Background(), msg(tt.text))

			store.AssertExpectations(t)
		})
	}
}

func TestHandle_UnknownCommand(t *testing.T) {
	store := new(MockTaskStore)
	h := newTestHandler(store)

	reply := h.Handle(context.Background(), msg("/listify"))

	assert.Equal(t, replyUnknownCommand, reply)
	store.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_HelpAndStart(t *testing.T) {
	h := newTestHandler(new(MockTaskStore))

	assert.Equal(t, replyWelcome, h.Handle(context.Background(), msg("/help")))
	assert.Equal(t, replyWelcome, h.Handle(context.Background(), msg("/start")))
}

func TestHandle_Add(t *testing.T) {
	store := new(MockTaskStore)
	store.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).
		Run(func(args mock.Arguments) {
			task := args.Get(1).(*model.Task)
			task.ID = 5
			task.CreatedAt = testNow
			task.UpdatedAt = testNow
		}).
		Return(nil)

	reply := newTestHandler(store).Handle(context.Background(), msg("/add buy milk"))

	assert.Contains(t, reply, "已添加待办事项")
	assert.Contains(t, reply, "------- 📝 5 -------")
	assert.Contains(t, reply, "任务内容：buy milk")
	assert.Contains(t, reply, "未完成 ❌")
	store.AssertExpectations(t)
}

func TestHandle_Add_MissingText(t *testing.T) {
	store := new(MockTaskStore)

	reply := newTestHandler(store).Handle(context.Background(), msg("/add"))

	assert.Equal(t, replyUsageAdd, reply)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandle_List_RendersTasksNewestFirst(t *testing.T) {
	store := new(MockTaskStore)
	store.On("List", mock.Anything, int64(42), repository.FilterOpen).
		Return([]model.Task{*openTask(2, "second"), *openTask(1, "first")}, nil)

	reply := newTestHandler(store).Handle(context.Background(), msg("/list"))

	assert.Contains(t, reply, "你的未完成待办事项:")
	assert.Contains(t, reply, "任务内容：second")
	assert.Contains(t, reply, "任务内容：first")
	// Store order is preserved in the rendered output.
	assert.Less(t, strings.Index(reply, "任务内容：second"), strings.Index(reply, "任务内容：first"))
}

func TestHandle_List_Empty(t *testing.T) {
	store := new(MockTaskStore)
	store.On("List", mock.Anything, int64(42), repository.FilterDone).Return(nil, nil)

	reply := newTestHandler(store).Handle(context.Background(), msg("/list_done"))

	assert.Equal(t, "你没有任何已完成的待办事项。", reply)
}

func TestHandle_Edit_InvalidArguments(t *testing.T) {
	store := new(MockTaskStore)
	h := newTestHandler(store)

	assert.Equal(t, replyUsageEdit, h.Handle(context.Background(), msg("/edit")))
	assert.Equal(t, replyUsageEdit, h.Handle(context.Background(), msg("/edit abc new text")))
	assert.Equal(t, replyUsageEdit, h.Handle(context.Background(), msg("/edit 3")))
	store.AssertNotCalled(t, "UpdateDescription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_Edit_NotFound(t *testing.T) {
	store := new(MockTaskStore)
	store.On("FindByID", mock.Anything, int64(42), int64(999)).
		Return(nil, repository.ErrTaskNotFound)

	reply := newTestHandler(store).Handle(context.Background(), msg("/edit 999 x"))

	assert.Equal(t, replyInvalidTaskID, reply)
	store.AssertNotCalled(t, "UpdateDescription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_Edit_ShowsOldDescription(t *testing.T) {
	store := new(MockTaskStore)
	store.On("FindByID", mock.Anything, int64(42), int64(3)).
		Return(openTask(3, "old text"), nil)
	updated := openTask(3, "new text")
	store.On("UpdateDescription", mock.Anything, int64(42), int64(3), "new text").
		Return(updated, nil)

	reply := newTestHandler(store).Handle(context.Background(), msg("/edit 3 new text"))

	assert.Contains(t, reply, "已修改待办事项")
	assert.Contains(t, reply, "任务内容：new text")
	assert.Contains(t, reply, "任务内容(旧): old text")
	store.AssertExpectations(t)
}

func TestHandle_Note_ShowsOldNote(t *testing.T) {
	store := new(MockTaskStore)
	old := openTask(3, "task")
	old.Note = "urgent"
	store.On("FindByID", mock.Anything, int64(42), int64(3)).Return(old, nil)
	updated := openTask(3, "task")
	updated.Note = "later"
	store.On("UpdateNote", mock.Anything, int64(42), int64(3), "later").
		Return(updated, nil)

	reply := newTestHandler(store).Handle(context.Background(), msg("/note 3 later"))

	assert.Contains(t, reply, "已添加备注到任务")
	assert.Contains(t, reply, "备注：later")
	assert.Contains(t, reply, "备注(旧): urgent")
	store.AssertExpectations(t)
}

func TestHandle_Complete(t *testing.T) {
	store := new(MockTaskStore)
	done := openTask(4, "finish me")
	done.Status = model.StatusDone
	completedAt := testNow.Add(-time.Minute)
	done.CompletedAt = &completedAt
	store.On("Complete", mock.Anything, int64(42), int64(4)).Return(done, nil)

	reply := newTestHandler(store).Handle(context.Background(), msg("/complete 4"))

	assert.Contains(t, reply, "已标记任务为完成")
	assert.Contains(t, reply, "完成 ✅")
	store.AssertExpectations(t)
}

func TestHandle_Complete_AlreadyDone(t *testing.T) {
	store := new(MockTaskStore)
	done := openTask(4, "finish me")
	done.Status = model.StatusDone
	completedAt := testNow.Add(-time.Minute)
	done.CompletedAt = &completedAt
	store.On("Complete", mock.Anything, int64(42), int64(4)).
		Return(done, repository.ErrTaskAlreadyDone)

	reply := newTestHandler(store).Handle(context.Background(), msg("/complete 4"))

	assert.Contains(t, reply, "任务已完成，无需重复标记")
	store.AssertExpectations(t)
}

func TestHandle_Complete_InvalidID(t *testing.T) {
	store := new(MockTaskStore)

	reply := newTestHandler(store).Handle(context.Background(), msg("/complete abc"))

	assert.Equal(t, replyUsageComplete, reply)
	store.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_StorageErrorIsNeverLeaked(t *testing.T) {
	store := new(MockTaskStore)
	store.On("List", mock.Anything, int64(42), repository.FilterOpen).
		Return(nil, assert.AnError)

	reply := newTestHandler(store).Handle(context.Background(), msg("/list"))

	assert.Equal(t, replyFailure, reply)
	assert.NotContains(t, reply, assert.AnError.Error())
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		text string
		name string
		rest string
	}{
		{"/add buy milk", "add", "buy milk"},
		{"/add   buy milk", "add", "buy milk"},
		{"/list", "list", ""},
		{"/edit@LiteToDoBot 1 x", "edit", "1 x"},
		{"help", "help", ""},
	}

	for _, tt := range tests {
		name, rest := splitCommand(tt.text)
		assert.Equal(t, tt.name, name, tt.text)
		assert.Equal(t, tt.rest, rest, tt.text)
	}
}

func TestSplitIDArg(t *testing.T) {
	id, text, ok := splitIDArg("12 new description here")
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)
	assert.Equal(t, "new description here", text)

	id, text, ok = splitIDArg("7")
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.Empty(t, text)

	_, _, ok = splitIDArg("abc text")
	assert.False(t, ok)

	_, _, ok = splitIDArg("")
	assert.False(t, ok)
}

func TestCommands_RegistrationList(t *testing.T) {
	cmds := Commands()

	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"add", "list", "list_done", "list_all", "edit", "complete", "note", "help"}, names)

	for _, c := range cmds {
		editable := c.Name == "edit" || c.Name == "complete" || c.Name == "note"
		assert.Equal(t, editable, c.Editable, c.Name)
	}
}

func TestIsEditable(t *testing.T) {
	assert.True(t, IsEditable("/edit 1 x"))
	assert.True(t, IsEditable("/note 1 x"))
	assert.True(t, IsEditable("/complete 1"))
	assert.False(t, IsEditable("/add x"))
	assert.False(t, IsEditable("/list"))
	assert.False(t, IsEditable("random text"))
}
