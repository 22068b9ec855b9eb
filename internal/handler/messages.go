package handler

import "github.com/daytrack/internal/locale"

// apiMessage 是返回给前端的提示；code 供前端判断，text 按请求语言输出
type apiMessage struct {
	code string
	text locale.Message
}

func newMessage(code, chinese, english string) apiMessage {
	return apiMessage{code: code, text: locale.Message{Chinese: chinese, English: english}}
}

var (
	msgInvalidRequest = newMessage("invalid_request", "请求参数不合法", "Invalid request payload")
	msgInvalidID      = newMessage("invalid_id", "无效的ID", "Invalid id")
	msgInvalidDate    = newMessage("invalid_date", "日期格式应为 YYYY-MM-DD", "Date must be YYYY-MM-DD")
	msgServerError    = newMessage("server_error", "服务器错误", "Server error")
	msgUnauthorized   = newMessage("unauthorized", "请先登录", "Login required")
	msgBadCredentials = newMessage("bad_credentials", "用户名或密码错误", "Wrong username or password")
	msgLoginDisabled  = newMessage("login_disabled", "未启用登录", "Login is not enabled")
	msgLoggedIn       = newMessage("logged_in", "登录成功", "Logged in")
	msgLoggedOut      = newMessage("logged_out", "已退出登录", "Logged out")

	msgInvalidAction        = newMessage("invalid_action", "无效的动作", "Invalid action")
	msgInvalidAssignTicket  = newMessage("invalid_ticket", "工单号应为 #XXXXX（5 位数字）", "Ticket must be #XXXXX (5 digits)")
	msgInvalidBaptizeTicket = newMessage("invalid_ticket", "工单号应为 #XXXXXX（6 位数字）", "Ticket must be #XXXXXX (6 digits)")
	msgNoActiveKaos         = newMessage("no_active_kaos", "没有进行中的 kaos 片段", "No active kaos fragment")
	msgNoActiveFragment     = newMessage("no_active_fragment", "没有进行中的片段", "No active fragment")
	msgFragmentClosed       = newMessage("fragment_closed", "片段已关闭", "Fragment closed")
	msgMoodNotFound         = newMessage("mood_not_found", "心情不存在", "Mood not found")
	msgFragmentFailed       = newMessage("fragment_failed", "处理片段失败", "Failed to process fragment")
	msgLoadFragmentFailed   = newMessage("fragment_load_failed", "获取片段失败", "Failed to load fragments")

	msgNoFragmentsForDay = newMessage("no_fragments", "当天没有片段", "No fragments for the day")
	msgStatsUpdated      = newMessage("stats_updated", "统计已更新", "Statistics updated")
	msgStatsFailed       = newMessage("stats_failed", "更新统计失败", "Failed to update statistics")

	msgCounterNotFound      = newMessage("counter_not_found", "计数器不存在", "Counter not found")
	msgCounterEmojiRequired = newMessage("emoji_required", "emoji 不能为空", "Emoji is required")
	msgCounterIDRequired    = newMessage("counter_id_required", "counterId 不能为空", "counterId is required")
	msgCounterTimeMissing   = newMessage("nothing_to_decrement", "没有可以递减的计数", "No counter to decrement")
	msgCounterAtZero        = newMessage("counter_at_zero", "计数已经为 0", "Counter is already at 0")
	msgCounterFailed        = newMessage("counter_failed", "处理计数器失败", "Failed to process counter")

	msgEntryInvalid      = newMessage("entry_invalid", "缺少必填项或字段不合法", "Missing or invalid required fields")
	msgEntryNotFound     = newMessage("entry_not_found", "日志不存在", "Entry not found")
	msgEntrySaved        = newMessage("entry_saved", "数据已保存", "Entry saved")
	msgEntryStagedOnly   = newMessage("entry_staged_only", "数据已保存到 JSON（数据库写入失败）", "Entry saved to JSON (database write failed)")
	msgEntryDBWarning    = newMessage("entry_db_warning", "无法写入数据库", "Could not write to the database")
	msgEntryFailed       = newMessage("entry_failed", "保存数据失败", "Failed to save entry")
	msgSnapshotNotFound  = newMessage("snapshot_not_found", "没有该日期的暂存数据", "No staged snapshot for that date")
	msgLoadEntriesFailed = newMessage("entries_load_failed", "获取日志失败", "Failed to load entries")

	msgMoodEmojiRequired = newMessage("emoji_required", "emoji 不能为空", "Emoji is required")
	msgMoodFailed        = newMessage("mood_failed", "处理心情失败", "Failed to process mood")
)
