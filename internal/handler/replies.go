package handler

import "github.com/F4ria/LiteToDoBot/internal/repository"

// Fixed reply texts. User-facing wording is policy, not configuration:
// validation failures get a command-specific usage hint, storage failures a
// generic message with no internals.
const (
	replyUsageAdd      = "请提供待办事项内容，如: /add 买牛奶"
	replyUsageEdit     = "请提供有效的格式，如: /edit 1 新的任务描述"
	replyUsageNote     = "请提供有效的格式，如: /note 1 新的备注内容"
	replyUsageComplete = "请提供有效的格式，如: /complete 1"

	replyInvalidTaskID  = "无效的任务编号。"
	replyUnknownCommand = "未知命令，请使用有效的指令，查看帮助 /help 。"
	replyFailure        = "something wrong."

	replyWelcome = "欢迎使用 Lite ToDo Bot! 你可以使用以下命令:\n" +
		"/add [任务] - 添加待办事项\n" +
		"/list - 查看未完成的待办事项\n" +
		"/list_done - 查看已完成的待办事项\n" +
		"/list_all - 查看所有待办事项\n" +
		"/edit [任务编号] [新任务描述] - 修改任务描述\n" +
		"/complete [任务编号] - 标记任务为完成\n" +
		"/note [任务编号] [备注内容] - 给任务添加备注\n" +
		"/help 帮助\n"
)

// Per-filter list headers and empty-result texts.
var (
	listHeaders = map[repository.StatusFilter]string{
		repository.FilterOpen: "你的未完成待办事项:",
		repository.FilterDone: "你的已完成待办事项:",
		repository.FilterAny:  "你的所有待办事项:",
	}
	listEmptyReplies = map[repository.StatusFilter]string{
		repository.FilterOpen: "你没有任何未完成的待办事项。",
		repository.FilterDone: "你没有任何已完成的待办事项。",
		repository.FilterAny:  "你没有任何待办事项。",
	}
)
