package skill

import "strings"

// MatchesCategory: "All" пропускает любую карточку, иначе нужен хотя бы
// один навык указанной категории.
func MatchesCategory(card TutorCard, category string) bool {
	if category == CategoryAll {
		return true
	}
	for _, s := range card.AllSkills {
		if string(s.Category) == category {
			return true
		}
	}
	return false
}

// MatchesQuery ищет подстроку без учёта регистра в имени и названиях навыков.
func MatchesQuery(card TutorCard, text string) bool {
	if text == "" {
		return true
	}

	needle := strings.ToLower(text)
	if strings.Contains(strings.ToLower(card.User.Name), needle) {
		return true
	}
	for _, s := range card.AllSkills {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			return true
		}
	}
	return false
}

// Filter применяет оба фильтра и возвращает новый срез.
// Пустая категория трактуется как "All".
func Filter(cards []TutorCard, query, category string) []TutorCard {
	if category == "" {
		category = CategoryAll
	}

	out := make([]TutorCard, 0, len(cards))
	for _, card := range cards {
		if MatchesQuery(card, query) && MatchesCategory(card, category) {
			out = append(out, card)
		}
	}
	return out
}
