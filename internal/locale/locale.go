package locale

import (
	"fmt"
	"strings"
)

// T returns the message for key in the given language, falling back to
// English when the language or the key is unknown. The tables are immutable;
// adding a language is purely additive data.
func T(lang string, key string) string {
	l := Normalize(lang)
	if m, ok := messages[l]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := messages["en"]; ok {
		return s[key]
	}
	return ""
}

func Tf(lang string, key string, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}

// Normalize reduces a chat-platform language code like "uk-UA" to a
// supported two-letter code, defaulting to English.
func Normalize(lang string) string {
	l := strings.ToLower(lang)
	if i := strings.IndexAny(l, "-_"); i > 0 {
		l = l[:i]
	}
	if _, ok := messages[l]; ok {
		return l
	}
	return "en"
}

func Supported() []string {
	return []string{"en", "uk", "ru", "de", "pl", "es"}
}

var messages = map[string]map[string]string{
	"en": {
		"choose_country":   "👋 Welcome! Where should I look for deals? Choose your country:",
		"choose_language":  "Choose your language:",
		"welcome":          "Great, I'll search deals shipped to %s with prices in %s. Just type what you're looking for!",
		"menu":             "Type a product name to search, or use /help to see what I can do.",
		"help":             "I find the best marketplace deals for you.\n\n/profile — your profile and referral link\n/favorites — saved products\n/top — today's top deals\n/settings — country, language, notifications\n\nJust type a product name to search.",
		"profile":          "👤 <b>%s</b>\nCountry: %s\nCurrency: %s\nReferrals: %d",
		"profile_referral": "Invite friends and earn discount coupons:\n%s",
		"profile_history":  "Recent searches:",
		"favorites_empty":  "You have no saved products yet. Tap ❤️ under a search result to save it.",
		"favorites_title":  "❤️ Your saved products:",
		"favorite_added":   "Saved %s to your favorites.",
		"favorite_exists":  "That product is already in your favorites.",
		"favorite_removed": "Removed %s from your favorites.",
		"unfav":            "🗑 %s",
		"profile_coupons":  "Your discount coupons:",
		"settings":         "⚙️ Settings",
		"settings_country": "🌍 Country",
		"settings_lang":    "🗣 Language",
		"settings_notify":  "🔔 Notifications",
		"notify_on":        "Notifications are on. I'll send you daily top deals and price drops.",
		"notify_off":       "Notifications are off. You can re-enable them in /settings.",
		"top_title":        "🔥 Top deals for %s today:",
		"search_header":    "Here's what I found for “%s”:",
		"search_none":      "I couldn't find anything for that. Try different words.",
		"search_failed":    "The marketplace isn't answering right now. Please try again in a minute.",
		"more":             "Show more",
		"fav":              "❤️ Save",
		"buy":              "🛒 Buy",
		"repeat":           "🔁 %s",
		"price_drop":       "📉 Price drop! %s\n%.2f %s → %.2f %s (-%d%%)",
		"daily_intro":      "☀️ Good morning! Here are today's hottest deals:",
		"daily_footer":     "Want the full top 10, or turn these off?",
		"daily_top10":      "Show top 10",
		"daily_off":        "Turn off daily deals",
		"referral_applied": "You joined through a friend's link. Welcome aboard! 🎉",
		"referral_self":    "You can't use your own referral link 😉",
		"referral_already": "You've already joined through a referral link.",
		"referral_invalid": "That referral link doesn't look valid.",
		"referral_reward":  "🎁 You earned a %d%% discount coupon: <code>%s</code>",
		"admin_denied":     "This command is for administrators. Need help? Contact support: @buywise_support",
	},
	"uk": {
		"choose_country":   "👋 Вітаю! Де шукати знижки? Оберіть країну:",
		"choose_language":  "Оберіть мову:",
		"welcome":          "Чудово, шукатиму товари з доставкою до %s, ціни у %s. Просто напишіть, що шукаєте!",
		"menu":             "Напишіть назву товару для пошуку або /help, щоб дізнатися більше.",
		"help":             "Я знаходжу найкращі пропозиції для вас.\n\n/profile — профіль і реферальне посилання\n/favorites — збережені товари\n/top — топ пропозицій дня\n/settings — країна, мова, сповіщення\n\nПросто напишіть назву товару.",
		"profile":          "👤 <b>%s</b>\nКраїна: %s\nВалюта: %s\nЗапрошено друзів: %d",
		"profile_referral": "Запрошуйте друзів та отримуйте купони на знижку:\n%s",
		"profile_history":  "Останні пошуки:",
		"favorites_empty":  "У вас ще немає збережених товарів. Натисніть ❤️ під результатом пошуку.",
		"favorites_title":  "❤️ Ваші збережені товари:",
		"favorite_added":   "Товар %s збережено в обране.",
		"favorite_exists":  "Цей товар уже в обраному.",
		"favorite_removed": "Товар %s видалено з обраного.",
		"unfav":            "🗑 %s",
		"profile_coupons":  "Ваші купони на знижку:",
		"settings":         "⚙️ Налаштування",
		"settings_country": "🌍 Країна",
		"settings_lang":    "🗣 Мова",
		"settings_notify":  "🔔 Сповіщення",
		"notify_on":        "Сповіщення увімкнено. Надсилатиму топ дня та зниження цін.",
		"notify_off":       "Сповіщення вимкнено. Увімкнути знову можна в /settings.",
		"top_title":        "🔥 Топ пропозицій для %s сьогодні:",
		"search_header":    "Ось що я знайшов за запитом «%s»:",
		"search_none":      "Нічого не знайшлося. Спробуйте інші слова.",
		"search_failed":    "Маркетплейс зараз не відповідає. Спробуйте за хвилину.",
		"more":             "Показати ще",
		"fav":              "❤️ Зберегти",
		"buy":              "🛒 Купити",
		"repeat":           "🔁 %s",
		"price_drop":       "📉 Ціна впала! %s\n%.2f %s → %.2f %s (-%d%%)",
		"daily_intro":      "☀️ Доброго ранку! Найгарячіші пропозиції сьогодні:",
		"daily_footer":     "Показати повний топ-10 чи вимкнути розсилку?",
		"daily_top10":      "Показати топ-10",
		"daily_off":        "Вимкнути розсилку",
		"referral_applied": "Ви приєдналися за посиланням друга. Вітаємо! 🎉",
		"referral_self":    "Не можна використати власне реферальне посилання 😉",
		"referral_already": "Ви вже приєдналися за реферальним посиланням.",
		"referral_invalid": "Це реферальне посилання недійсне.",
		"referral_reward":  "🎁 Ви отримали купон на знижку %d%%: <code>%s</code>",
		"admin_denied":     "Ця команда лише для адміністраторів. Потрібна допомога? Підтримка: @buywise_support",
	},
	"ru": {
		"choose_country":   "👋 Привет! Где искать скидки? Выберите страну:",
		"choose_language":  "Выберите язык:",
		"welcome":          "Отлично, буду искать товары с доставкой в %s, цены в %s. Просто напишите, что ищете!",
		"menu":             "Напишите название товара для поиска или /help, чтобы узнать больше.",
		"help":             "Я нахожу лучшие предложения для вас.\n\n/profile — профиль и реферальная ссылка\n/favorites — сохранённые товары\n/top — топ предложений дня\n/settings — страна, язык, уведомления\n\nПросто напишите название товара.",
		"profile":          "👤 <b>%s</b>\nСтрана: %s\nВалюта: %s\nПриглашено друзей: %d",
		"profile_referral": "Приглашайте друзей и получайте купоны на скидку:\n%s",
		"profile_history":  "Недавние поиски:",
		"favorites_empty":  "У вас пока нет сохранённых товаров. Нажмите ❤️ под результатом поиска.",
		"favorites_title":  "❤️ Ваши сохранённые товары:",
		"favorite_added":   "Товар %s сохранён в избранное.",
		"favorite_exists":  "Этот товар уже в избранном.",
		"favorite_removed": "Товар %s удалён из избранного.",
		"unfav":            "🗑 %s",
		"profile_coupons":  "Ваши купоны на скидку:",
		"settings":         "⚙️ Настройки",
		"settings_country": "🌍 Страна",
		"settings_lang":    "🗣 Язык",
		"settings_notify":  "🔔 Уведомления",
		"notify_on":        "Уведомления включены. Буду присылать топ дня и снижения цен.",
		"notify_off":       "Уведомления выключены. Включить снова можно в /settings.",
		"top_title":        "🔥 Топ предложений для %s сегодня:",
		"search_header":    "Вот что я нашёл по запросу «%s»:",
		"search_none":      "Ничего не нашлось. Попробуйте другие слова.",
		"search_failed":    "Маркетплейс сейчас не отвечает. Попробуйте через минуту.",
		"more":             "Показать ещё",
		"fav":              "❤️ Сохранить",
		"buy":              "🛒 Купить",
		"repeat":           "🔁 %s",
		"price_drop":       "📉 Цена упала! %s\n%.2f %s → %.2f %s (-%d%%)",
		"daily_intro":      "☀️ Доброе утро! Самые горячие предложения сегодня:",
		"daily_footer":     "Показать полный топ-10 или отключить рассылку?",
		"daily_top10":      "Показать топ-10",
		"daily_off":        "Отключить рассылку",
		"referral_applied": "Вы присоединились по ссылке друга. Добро пожаловать! 🎉",
		"referral_self":    "Нельзя использовать собственную реферальную ссылку 😉",
		"referral_already": "Вы уже присоединились по реферальной ссылке.",
		"referral_invalid": "Эта реферальная ссылка недействительна.",
		"referral_reward":  "🎁 Вы получили купон на скидку %d%%: <code>%s</code>",
		"admin_denied":     "Эта команда только для администраторов. Нужна помощь? Поддержка: @buywise_support",
	},
	"de": {
		"choose_country":   "👋 Willkommen! Wo soll ich nach Angeboten suchen? Wähle dein Land:",
		"choose_language":  "Wähle deine Sprache:",
		"welcome":          "Super, ich suche Angebote mit Versand nach %s, Preise in %s. Schreib einfach, was du suchst!",
		"menu":             "Schreib einen Produktnamen zum Suchen oder /help für mehr Infos.",
		"help":             "Ich finde die besten Angebote für dich.\n\n/profile — Profil und Empfehlungslink\n/favorites — gespeicherte Produkte\n/top — Top-Angebote des Tages\n/settings — Land, Sprache, Benachrichtigungen\n\nSchreib einfach einen Produktnamen.",
		"profile":          "👤 <b>%s</b>\nLand: %s\nWährung: %s\nGeworbene Freunde: %d",
		"profile_referral": "Lade Freunde ein und verdiene Rabattgutscheine:\n%s",
		"profile_history":  "Letzte Suchen:",
		"favorites_empty":  "Du hast noch keine gespeicherten Produkte. Tippe ❤️ unter einem Suchergebnis.",
		"favorites_title":  "❤️ Deine gespeicherten Produkte:",
		"favorite_added":   "%s wurde gespeichert.",
		"favorite_exists":  "Dieses Produkt ist bereits gespeichert.",
		"favorite_removed": "%s wurde aus deinen Favoriten entfernt.",
		"unfav":            "🗑 %s",
		"profile_coupons":  "Deine Rabattgutscheine:",
		"settings":         "⚙️ Einstellungen",
		"settings_country": "🌍 Land",
		"settings_lang":    "🗣 Sprache",
		"settings_notify":  "🔔 Benachrichtigungen",
		"notify_on":        "Benachrichtigungen sind an. Ich schicke dir Top-Angebote und Preissenkungen.",
		"notify_off":       "Benachrichtigungen sind aus. In /settings kannst du sie wieder aktivieren.",
		"top_title":        "🔥 Top-Angebote für %s heute:",
		"search_header":    "Das habe ich für „%s“ gefunden:",
		"search_none":      "Dazu habe ich nichts gefunden. Versuch andere Begriffe.",
		"search_failed":    "Der Marktplatz antwortet gerade nicht. Bitte versuch es gleich nochmal.",
		"more":             "Mehr anzeigen",
		"fav":              "❤️ Speichern",
		"buy":              "🛒 Kaufen",
		"repeat":           "🔁 %s",
		"price_drop":       "📉 Preissenkung! %s\n%.2f %s → %.2f %s (-%d%%)",
		"daily_intro":      "☀️ Guten Morgen! Die heißesten Angebote heute:",
		"daily_footer":     "Die vollen Top 10 sehen oder abbestellen?",
		"daily_top10":      "Top 10 anzeigen",
		"daily_off":        "Tägliche Angebote aus",
		"referral_applied": "Du bist über den Link eines Freundes beigetreten. Willkommen! 🎉",
		"referral_self":    "Deinen eigenen Empfehlungslink kannst du nicht nutzen 😉",
		"referral_already": "Du bist bereits über einen Empfehlungslink beigetreten.",
		"referral_invalid": "Dieser Empfehlungslink ist ungültig.",
		"referral_reward":  "🎁 Du hast einen %d%%-Rabattgutschein verdient: <code>%s</code>",
		"admin_denied":     "Dieser Befehl ist nur für Administratoren. Hilfe nötig? Support: @buywise_support",
	},
	"pl": {
		"choose_country":   "👋 Witaj! Gdzie mam szukać okazji? Wybierz kraj:",
		"choose_language":  "Wybierz język:",
		"welcome":          "Świetnie, będę szukać ofert z dostawą do %s, ceny w %s. Po prostu napisz, czego szukasz!",
		"menu":             "Napisz nazwę produktu, aby wyszukać, albo /help po więcej informacji.",
		"help":             "Znajduję dla Ciebie najlepsze oferty.\n\n/profile — profil i link polecający\n/favorites — zapisane produkty\n/top — najlepsze oferty dnia\n/settings — kraj, język, powiadomienia\n\nPo prostu napisz nazwę produktu.",
		"profile":          "👤 <b>%s</b>\nKraj: %s\nWaluta: %s\nPoleceni znajomi: %d",
		"profile_referral": "Zapraszaj znajomych i zdobywaj kupony rabatowe:\n%s",
		"profile_history":  "Ostatnie wyszukiwania:",
		"favorites_empty":  "Nie masz jeszcze zapisanych produktów. Kliknij ❤️ pod wynikiem wyszukiwania.",
		"favorites_title":  "❤️ Twoje zapisane produkty:",
		"favorite_added":   "Zapisano %s w ulubionych.",
		"favorite_exists":  "Ten produkt jest już w ulubionych.",
		"favorite_removed": "Usunięto %s z ulubionych.",
		"unfav":            "🗑 %s",
		"profile_coupons":  "Twoje kupony rabatowe:",
		"settings":         "⚙️ Ustawienia",
		"settings_country": "🌍 Kraj",
		"settings_lang":    "🗣 Język",
		"settings_notify":  "🔔 Powiadomienia",
		"notify_on":        "Powiadomienia włączone. Będę wysyłać top dnia i spadki cen.",
		"notify_off":       "Powiadomienia wyłączone. Możesz je włączyć w /settings.",
		"top_title":        "🔥 Najlepsze oferty dla %s dzisiaj:",
		"search_header":    "Oto co znalazłem dla „%s”:",
		"search_none":      "Nic nie znalazłem. Spróbuj innych słów.",
		"search_failed":    "Marketplace nie odpowiada. Spróbuj za chwilę.",
		"more":             "Pokaż więcej",
		"fav":              "❤️ Zapisz",
		"buy":              "🛒 Kup",
		"repeat":           "🔁 %s",
		"price_drop":       "📉 Cena spadła! %s\n%.2f %s → %.2f %s (-%d%%)",
		"daily_intro":      "☀️ Dzień dobry! Najgorętsze oferty dzisiaj:",
		"daily_footer":     "Pokazać pełne top 10 czy wyłączyć powiadomienia?",
		"daily_top10":      "Pokaż top 10",
		"daily_off":        "Wyłącz codzienne oferty",
		"referral_applied": "Dołączyłeś przez link znajomego. Witamy! 🎉",
		"referral_self":    "Nie możesz użyć własnego linku polecającego 😉",
		"referral_already": "Już dołączyłeś przez link polecający.",
		"referral_invalid": "Ten link polecający jest nieprawidłowy.",
		"referral_reward":  "🎁 Zdobyłeś kupon rabatowy %d%%: <code>%s</code>",
		"admin_denied":     "To polecenie jest tylko dla administratorów. Potrzebujesz pomocy? Wsparcie: @buywise_support",
	},
	"es": {
		"choose_country":   "👋 ¡Bienvenido! ¿Dónde busco ofertas? Elige tu país:",
		"choose_language":  "Elige tu idioma:",
		"welcome":          "Genial, buscaré ofertas con envío a %s, precios en %s. ¡Escribe lo que buscas!",
		"menu":             "Escribe el nombre de un producto para buscar, o /help para más información.",
		"help":             "Encuentro las mejores ofertas para ti.\n\n/profile — perfil y enlace de referido\n/favorites — productos guardados\n/top — mejores ofertas del día\n/settings — país, idioma, notificaciones\n\nSimplemente escribe el nombre de un producto.",
		"profile":          "👤 <b>%s</b>\nPaís: %s\nMoneda: %s\nAmigos invitados: %d",
		"profile_referral": "Invita amigos y gana cupones de descuento:\n%s",
		"profile_history":  "Búsquedas recientes:",
		"favorites_empty":  "Aún no tienes productos guardados. Toca ❤️ bajo un resultado de búsqueda.",
		"favorites_title":  "❤️ Tus productos guardados:",
		"favorite_added":   "Guardado %s en favoritos.",
		"favorite_exists":  "Ese producto ya está en favoritos.",
		"favorite_removed": "Eliminado %s de tus favoritos.",
		"unfav":            "🗑 %s",
		"profile_coupons":  "Tus cupones de descuento:",
		"settings":         "⚙️ Ajustes",
		"settings_country": "🌍 País",
		"settings_lang":    "🗣 Idioma",
		"settings_notify":  "🔔 Notificaciones",
		"notify_on":        "Notificaciones activadas. Te enviaré el top del día y bajadas de precio.",
		"notify_off":       "Notificaciones desactivadas. Puedes reactivarlas en /settings.",
		"top_title":        "🔥 Mejores ofertas para %s hoy:",
		"search_header":    "Esto es lo que encontré para «%s»:",
		"search_none":      "No encontré nada. Prueba con otras palabras.",
		"search_failed":    "El marketplace no responde ahora mismo. Inténtalo en un minuto.",
		"more":             "Mostrar más",
		"fav":              "❤️ Guardar",
		"buy":              "🛒 Comprar",
		"repeat":           "🔁 %s",
		"price_drop":       "📉 ¡Bajada de precio! %s\n%.2f %s → %.2f %s (-%d%%)",
		"daily_intro":      "☀️ ¡Buenos días! Las ofertas más calientes de hoy:",
		"daily_footer":     "¿Ver el top 10 completo o desactivar estos avisos?",
		"daily_top10":      "Ver top 10",
		"daily_off":        "Desactivar ofertas diarias",
		"referral_applied": "Te uniste con el enlace de un amigo. ¡Bienvenido! 🎉",
		"referral_self":    "No puedes usar tu propio enlace de referido 😉",
		"referral_already": "Ya te uniste con un enlace de referido.",
		"referral_invalid": "Ese enlace de referido no es válido.",
		"referral_reward":  "🎁 Ganaste un cupón de %d%% de descuento: <code>%s</code>",
		"admin_denied":     "Este comando es solo para administradores. ¿Necesitas ayuda? Soporte: @buywise_support",
	},
}
