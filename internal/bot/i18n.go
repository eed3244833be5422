package bot

// translations holds the localized bot strings. Keys missing from a
// language fall back to English, unknown languages fall back entirely.
var translations = map[string]map[string]string{
	"en": {
		"greeting": "Hi! I will notify you about upcoming matches.\n" +
			"By default, I track only top-tier tournaments.\n" +
			"Use /subscribe_all to get all matches.\n" +
			"You can change the language using /language.",
		"help": "Commands:\n" +
			"/next — upcoming matches\n" +
			"/live — live matches\n" +
			"/recent — recent results\n" +
			"/subscribe — notifications for top-tier tournaments\n" +
			"/subscribe_all — notifications for all tournaments\n" +
			"/unsubscribe — stop notifications\n" +
			"/language — change language",
		"choose_language":  "Please choose your language:",
		"language_updated": "✅ Language set to English",
		"no_upcoming":      "No upcoming matches",
		"no_live":          "No live matches",
		"no_recent":        "No recent matches",
		"subscribed_top":   "You are now subscribed to top-tier tournaments.",
		"subscribed_all":   "You are now subscribed to all tournaments.",
		"unsubscribed":     "You have unsubscribed from notifications.",
		"winner":           "🏆 Winner:",
		"time_until":       "⏳ Starts in:",
		"no_stream":        "No stream available",
		"prefix_upcoming":  "⏳ <b>Upcoming Matches</b>",
		"prefix_live":      "🔴 <b>Live Matches</b>",
		"prefix_recent":    "🏁 <b>Recent Matches</b>",
		"prefix_starting":  "🔔 <b>Match is starting!</b>",
		"already_started":  "⏱ Already started",
		"day_short":        "d",
		"hour_short":       "h",
		"minute_short":     "min",
		"few_minutes":      "Few minutes",
		"unknown_time":     "Unknown time",
	},
	"ru": {
		"greeting": "Привет! Я буду присылать уведомления о матчах.\n" +
			"По умолчанию отслеживаются только топовые турниры.\n" +
			"Используйте /subscribe_all, чтобы получать все матчи.\n" +
			"Вы можете сменить язык с помощью /language.",
		"help": "Команды:\n" +
			"/next — ближайшие матчи\n" +
			"/live — текущие матчи\n" +
			"/recent — недавние результаты\n" +
			"/subscribe — уведомления о топовых турнирах\n" +
			"/subscribe_all — уведомления обо всех турнирах\n" +
			"/unsubscribe — отключить уведомления\n" +
			"/language — сменить язык",
		"choose_language":  "Пожалуйста, выберите язык:",
		"language_updated": "✅ Язык изменен на Русский",
		"no_upcoming":      "Нет ближайших матчей",
		"no_live":          "Сейчас нет активных матчей",
		"no_recent":        "Нет результатов недавних матчей",
		"subscribed_top":   "Вы подписаны на топ-турниры.",
		"subscribed_all":   "Теперь вы подписаны на все турниры.",
		"unsubscribed":     "Вы отписаны от уведомлений.",
		"winner":           "🏆 Победитель:",
		"time_until":       "⏳ Начнётся через:",
		"no_stream":        "Трансляция отсутствует",
		"prefix_upcoming":  "⏳ <b>Ближайшие матчи</b>",
		"prefix_live":      "🔴 <b>Текущие матчи</b>",
		"prefix_recent":    "🏁 <b>Недавние матчи</b>",
		"prefix_starting":  "🔔 <b>Матч начинается!</b>",
		"already_started":  "⏱ Уже начался",
		"day_short":        "дн.",
		"hour_short":       "ч.",
		"minute_short":     "мин.",
		"few_minutes":      "Несколько минут",
		"unknown_time":     "Время неизвестно",
	},
	"pt": {
		"greeting": "Olá! Vou te enviar notificações sobre partidas.\n" +
			"Por padrão, acompanho apenas torneios de alto nível.\n" +
			"Use /subscribe_all para receber todas as partidas.\n" +
			"Você pode alterar o idioma com /language.",
		"help": "Comandos:\n" +
			"/next — próximas partidas\n" +
			"/live — partidas ao vivo\n" +
			"/recent — resultados recentes\n" +
			"/subscribe — notificações de torneios de alto nível\n" +
			"/subscribe_all — notificações de todos os torneios\n" +
			"/unsubscribe — parar notificações\n" +
			"/language — alterar idioma",
		"choose_language":  "Por favor, escolha seu idioma:",
		"language_updated": "✅ Idioma definido para Português",
		"no_upcoming":      "Sem partidas futuras",
		"no_live":          "Nenhuma partida ao vivo agora",
		"no_recent":        "Nenhum resultado recente",
		"subscribed_top":   "Você está inscrito em torneios de alto nível.",
		"subscribed_all":   "Agora você está inscrito em todos os torneios.",
		"unsubscribed":     "Você cancelou a inscrição nas notificações.",
		"winner":           "🏆 Vencedor:",
		"time_until":       "⏳ Começa em:",
		"no_stream":        "Sem transmissão disponível",
		"prefix_upcoming":  "⏳ <b>Próximas Partidas</b>",
		"prefix_live":      "🔴 <b>Partidas Ao Vivo</b>",
		"prefix_recent":    "🏁 <b>Partidas Recentes</b>",
		"prefix_starting":  "🔔 <b>A partida vai começar!</b>",
		"already_started":  "⏱ Já começou",
		"day_short":        "d",
		"hour_short":       "h",
		"minute_short":     "min",
		"few_minutes":      "Poucos minutos",
		"unknown_time":     "Hora desconhecida",
	},
}

// supportedLanguages lists the codes offered by /language, in menu order.
var supportedLanguages = []struct {
	Code  string
	Label string
}{
	{"en", "English"},
	{"ru", "Русский"},
	{"pt", "Português"},
}

// t returns the translation for key in lang, falling back to English
// and finally to the key itself.
func t(key, lang string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := translations["en"][key]; ok {
		return s
	}
	return key
}
