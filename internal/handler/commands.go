package handler

import (
	"strconv"
	"strings"
	"unicode"
)

// Command describes one bot command for registration with the chat platform.
type Command struct {
	Name        string
	Description string
	// Editable commands are dispatched again when the user edits the
	// message that carried them.
	Editable bool
}

// Commands returns the advertised command set, in the order it is shown to
// users. Dispatch itself matches the first token exactly, so the order here
// is presentational only.
func Commands() []Command {
	return []Command{
		{Name: "add", Description: "添加待办事项"},
		{Name: "list", Description: "查看未完成的待办事项"},
		{Name: "list_done", Description: "查看已完成的待办事项"},
		{Name: "list_all", Description: "查看所有待办事项"},
		{Name: "edit", Description: "修改任务描述", Editable: true},
		{Name: "complete", Description: "标记任务为完成", Editable: true},
		{Name: "note", Description: "给任务添加备注", Editable: true},
		{Name: "help", Description: "帮助"},
	}
}

// IsEditable reports whether the leading command of text should be handled
// again when the carrying message is edited.
func IsEditable(text string) bool {
	name, _ := splitCommand(strings.TrimSpace(text))
	for _, c := range Commands() {
		if c.Name == name {
			return c.Editable
		}
	}
	return false
}

// splitCommand separates the leading command word from the remainder of the
// line. The leading slash and an optional @botname suffix are stripped, so
// "/edit@LiteToDoBot 1 x" and "edit 1 x" parse the same way.
func splitCommand(text string) (string, string) {
	name, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		name, rest = text[:i], strings.TrimSpace(text[i:])
	}
	name = strings.TrimPrefix(name, "/")
	if j := strings.IndexByte(name, '@'); j >= 0 {
		name = name[:j]
	}
	return name, rest
}

// splitIDArg parses the "<id> <text>" argument form shared by edit, note
// and complete. ok is false when the id is missing or not an integer.
func splitIDArg(rest string) (id int64, text string, ok bool) {
	idPart := rest
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		idPart, text = rest[:i], strings.TrimSpace(rest[i:])
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, text, true
}
