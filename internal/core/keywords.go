package core

// Exact-match text commands.
const (
	KeywordHelp         = "ヘルプ"
	KeywordUsage        = "使い方"
	KeywordList         = "一覧"
	KeywordUnsubscribe  = "退会"
	KeywordReminder     = "リマインダー"
	KeywordRegister     = "はじめる"
	KeywordReactivate   = "利用を再開する"
	KeywordToday        = "今日"
	KeywordTodayKana    = "きょう"
	KeywordTomorrow     = "明日"
	KeywordTomorrowKana = "あした"

	KeywordSkip   = "スキップ"
	KeywordNone   = "なし"
	KeywordCancel = "キャンセル"
)

// Unset is displayed for an empty garbage type or note.
const Unset = "（未設定）"
