package model

import (
	"fmt"
	"time"
)

// TaskStatus is the lifecycle state of a task. The transition is
// one-directional: an open task can be completed, a completed task
// never goes back to open.
type TaskStatus int

const (
	StatusOpen TaskStatus = 0
	StatusDone TaskStatus = 1
)

// TimeLayout is the timestamp format used in every rendered reply.
const TimeLayout = "2006-01-02 15:04:05"

type Task struct {
	ID          int64      `gorm:"primaryKey;autoIncrement;index:idx_todos_user_id,priority:2"`
	UserID      int64      `gorm:"not null;index:idx_todos_user_status,priority:1;index:idx_todos_user_id,priority:1"`
	UserName    string
	ChatID      int64      `gorm:"not null"`
	Description string     `gorm:"column:task;not null"`
	Status      TaskStatus `gorm:"not null;default:0;index:idx_todos_user_status,priority:2"`
	Note        string     `gorm:"not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func (Task) TableName() string {
	return "todos"
}

func (t *Task) IsCompleted() bool {
	return t.Status == StatusDone
}

// TimeSinceCreation renders the age of the task as "D 天 H 时 M 分",
// floor-divided, seconds dropped.
func (t *Task) TimeSinceCreation(now time.Time) string {
	diff := now.Sub(t.CreatedAt)
	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	minutes := int(diff.Minutes()) % 60
	return fmt.Sprintf("%d 天 %d 时 %d 分", days, hours, minutes)
}

// Display renders the fixed multi-line block shown in bot replies: header
// with the task id, description, creation time, status, then either the
// completion time (done) or the elapsed time (open), then the note if set.
func (t *Task) Display(now time.Time) string {
	statusText := "未完成 ❌"
	timeLine := "\n距离现在：" + t.TimeSinceCreation(now)
	if t.IsCompleted() {
		statusText = "完成 ✅"
		completedAt := ""
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.Format(TimeLayout)
		}
		timeLine = "\n完成时间：" + completedAt
	}

	noteText := ""
	if t.Note != "" {
		noteText = "\n备注：" + t.Note
	}

	return fmt.Sprintf(
		"------- 📝 %d -------\n任务内容：%s\n创建时间：%s\n状态：%s%s%s\n",
		t.ID, t.Description, t.CreatedAt.Format(TimeLayout), statusText, timeLine, noteText,
	)
}
