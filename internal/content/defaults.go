package content

// defaultPools returns the built-in content set. Intros take the user's
// sign through a single %s verb.
func defaultPools() *Pools {
	return &Pools{
		Intros: []string{
			"✨ %s, сегодня звёзды говорят именно с тобой.",
			"🌟 %s, небо сложило для тебя особый узор.",
			"🔮 %s, день начинается с тихого знака свыше.",
			"🌙 %s, луна оставила тебе послание на сегодня.",
			"💫 %s, твоя история сегодня пишется крупными буквами.",
		},
		Themes: map[string][]string{
			"энергия": {
				"Внутри тебя сегодня больше сил, чем кажется — трать их на главное.",
				"День подталкивает к движению: начни с самого простого шага.",
				"Энергия дня на твоей стороне, если не распылять её на чужие задачи.",
			},
			"отношения": {
				"Рядом есть человек, которому важно твоё слово — скажи его.",
				"Сегодня стоит слушать чуть дольше, чем говорить.",
				"Старый разговор можно закончить мирно, если начать его первым.",
			},
			"работа": {
				"Одно незаметное дело, сделанное сегодня, откроет заметную дверь.",
				"Не берись за всё сразу: выбери задачу, которую доведёшь до конца.",
				"Твоя аккуратность сегодня заметнее твоей скорости.",
			},
			"интуиция": {
				"Первое ощущение от встречи окажется самым точным.",
				"Сегодня подсказки приходят не словами, а совпадениями.",
				"Доверься паузе: она знает больше, чем поспешный ответ.",
			},
		},
		Styles: map[string][]string{
			"мудрый наставник": {
				"Помни: большие перемены складываются из маленьких честных решений.",
				"Не торопи реку — она и так течёт в твою сторону.",
				"Смотри на день как на учителя, а не как на экзамен.",
			},
			"шутливый философ": {
				"Вселенная сегодня подмигивает — подмигни в ответ и делай своё.",
				"Если всё идёт не по плану, значит план был черновиком.",
				"Серьёзные лица переоценены: улыбка решает половину задач дня.",
			},
			"драматичный пророк": {
				"Сегодня решается больше, чем кажется, — будь внимателен к знакам.",
				"Час выбора близок, и выбор этот принадлежит только тебе.",
				"То, что ты отпустишь сегодня, освободит место для судьбы.",
			},
			"практичный психолог": {
				"Назови своё чувство вслух — и оно перестанет управлять тобой.",
				"Одна выполненная договорённость с собой важнее трёх обещаний.",
				"Усталость — это сигнал, а не слабость: запланируй отдых как дело.",
			},
		},
		Symbols: []string{
			"ключ", "свеча", "мост", "компас", "зерно", "маяк", "перо", "родник",
		},
		Endings: []string{
			"Пусть этот день станет твоим союзником. ✨",
			"Звёзды рядом — действуй спокойно и уверенно. 🌟",
			"Сохрани эту мысль до вечера и проверь её. 🌙",
			"Ты знаешь, что делать. Остальное приложится. 💫",
			"До завтра — небо подготовит новую страницу. 🔮",
		},
		Welcomes: []string{
			"✨ Привет! Я астробот, который говорит с тобой живым языком.",
			"🌟 Ты в точке, где звёзды начинают шептать. Прислушайся.",
			"🔮 Привет! Ты — герой своей сегодняшней истории. Я помогу её прочитать.",
			"🌙 Светит луна, ветер зовёт — ты готов к внутреннему путешествию?",
			"💫 Ты нашёл бота, где текст — это не просто слова, а отражение твоей души.",
		},
		SignPrompts: []string{
			"Выбери свой знак зодиака — и пусть он станет твоим компасом на день.",
			"Кто ты сегодня? Выбери знак и начни путешествие.",
			"Твои звёзды ждут — укажи, под каким ты родился.",
			"Сила дня — в тебе. Выбери знак, и я расскажу, как её использовать.",
			"Звёзды хотят с тобой поговорить. Под каким ты знаком?",
		},
		TarotIntros: []string{
			"Шепот звёзд складывается в образ...",
			"Карты раскрывают тайну твоего вопроса о...",
			"Смотри, что говорят Арканы о...",
			"Вот что видят карты по теме...",
		},
		TarotPositions: []string{"Прошлое", "Настоящее", "Будущее"},
		TarotStyles: []string{
			"мистический",
			"практичный",
			"юмористический",
			"поэтичный",
			"терапевтический",
		},
		TarotBridges: map[string]string{
			"мистический":     "Эта карта звучит как шёпот между мирами:",
			"практичный":      "Если говорить совсем по-деловому:",
			"юмористический":  "Если смотреть с лёгкой самоиронией:",
			"поэтичный":       "Если облечь всё это в образ:",
			"терапевтический": "Если относиться к этому как к мягкой сессии с самим собой:",
		},
		SeedQuotes: []string{
			"Дорога появляется под ногами идущего.",
			"Тишина — тоже ответ, просто сказанный мягче.",
			"Всё великое начинается с незаметного.",
			"Сомнение — это дверь, а не стена.",
			"Свет не спорит с темнотой, он просто светит.",
			"Случайности — это закономерности, которые не представились.",
			"Слушай себя чаще, чем чужие прогнозы.",
			"Каждый день даёт шанс переписать вчерашнюю строку.",
			"Терпение — это скорость, которую не видно.",
			"Там, где заканчиваются слова, начинается понимание.",
		},
		SeedCards: []SeedCard{
			{Name: "Шут", Meaning: "начало пути, лёгкость и доверие неизвестному"},
			{Name: "Маг", Meaning: "все инструменты уже в твоих руках — пора действовать"},
			{Name: "Верховная Жрица", Meaning: "внутреннее знание важнее внешних советов"},
			{Name: "Императрица", Meaning: "рост, забота и плодородная почва для задуманного"},
			{Name: "Император", Meaning: "структура и порядок дают свободу, а не отнимают её"},
			{Name: "Влюбленные", Meaning: "выбор сердца, который нельзя делегировать"},
			{Name: "Колесница", Meaning: "воля собирает разнонаправленные силы в одно движение"},
			{Name: "Сила", Meaning: "мягкость, которая держит больше, чем жёсткость"},
			{Name: "Колесо Фортуны", Meaning: "цикл сменяется — подстройся, а не сопротивляйся"},
			{Name: "Звезда", Meaning: "надежда и тихое обновление после бури"},
			{Name: "Луна", Meaning: "туман рассеется, если не принимать тени за стены"},
			{Name: "Солнце", Meaning: "ясность, радость и заслуженная видимость результата"},
		},
	}
}
