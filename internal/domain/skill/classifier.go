package skill

import "strings"

// Classify определяет категорию навыка по его названию.
// Функция тотальна: любая строка даёт категорию из таксономии.
func Classify(name string) Category {
	if name == "" {
		return CategoryOther
	}

	folded := strings.ToLower(name)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(folded, kw) {
				return r.category
			}
		}
	}

	return CategoryOther
}

// ResolveCategory возвращает явно указанную категорию, если она задана
// и отличается от Other, иначе классифицирует название навыка.
// Значения вне таксономии (старые записи) тоже переклассифицируются.
func ResolveCategory(explicit Category, name string) Category {
	if explicit != "" && explicit != CategoryOther && explicit.IsValid() {
		return explicit
	}
	return Classify(name)
}
