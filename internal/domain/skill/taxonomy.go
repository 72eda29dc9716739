package skill

import (
	"github.com/skillswap/backend/internal/pkg/apperror"
)

// Category — категория навыка из фиксированной таксономии.
type Category string

const (
	CategoryTech          Category = "Tech"
	CategoryArt           Category = "Art"
	CategoryMusic         Category = "Music"
	CategoryLanguage      Category = "Language"
	CategoryFitness       Category = "Fitness"
	CategoryBusiness      Category = "Business"
	CategoryWriting       Category = "Writing"
	CategoryCommunication Category = "Communication"
	CategoryDesign        Category = "Design"
	CategoryPhotography   Category = "Photography & Videography"
	CategoryTrades        Category = "Trades & DIY"
	CategoryCooking       Category = "Cooking & Baking"
	CategoryTutoring      Category = "Tutoring & Academics"
	CategoryOther         Category = "Other"
)

// CategoryAll — значение фильтра "все категории", в таксономию не входит.
const CategoryAll = "All"

// rule связывает категорию с набором ключевых подстрок.
type rule struct {
	category Category
	keywords []string
}

// rules проверяются сверху вниз, побеждает первое совпадение.
// Порядок является частью контракта: от него зависит классификация
// пересекающихся названий ("Japanese Cooking" -> Language).
var rules = []rule{
	{CategoryTech, []string{
		"programming", "coding", "development", "software", "web", "app",
		"python", "javascript", "java", "c++", "react", "node", "database",
		"sql", "html", "css", "computer",
	}},
	{CategoryArt, []string{
		"art", "drawing", "painting", "sketch", "illustration", "design",
		"graphic", "photography", "sculpt", "craft",
	}},
	{CategoryMusic, []string{
		"music", "guitar", "piano", "sing", "vocal", "drum", "bass", "violin",
		"flute", "saxophone", "instrument", "composition", "song",
	}},
	{CategoryLanguage, []string{
		"language", "english", "spanish", "french", "german", "italian",
		"chinese", "japanese", "korean", "russian", "arabic", "portuguese",
		"translation", "speaking",
	}},
	{CategoryFitness, []string{
		"fitness", "workout", "gym", "exercise", "yoga", "pilates", "running",
		"swimming", "cycling", "sport", "training", "health", "nutrition", "diet",
	}},
	{CategoryBusiness, []string{
		"business", "management", "marketing", "finance", "accounting",
		"sales", "strategy", "entrepreneur",
	}},
	{CategoryWriting, []string{
		"writing", "content", "copywriting", "editing", "proofreading",
		"article", "blog", "technical writing", "creative writing",
	}},
	{CategoryCommunication, []string{
		"communication", "public speaking", "presentation", "negotiation",
		"interpersonal", "facilitation",
	}},
	{CategoryDesign, []string{
		"ui/ux", "user interface", "user experience", "web design",
		"product design", "motion graphics",
	}},
	{CategoryPhotography, []string{
		"photography", "videography", "photo editing", "video editing",
		"filmmaking", "camera",
	}},
	{CategoryTrades, []string{
		"plumbing", "electrical", "carpentry", "welding", "construction",
		"diy", "repair", "maintenance",
	}},
	{CategoryCooking, []string{
		"cooking", "baking", "recipe", "chef", "cuisine", "pastry",
	}},
	{CategoryTutoring, []string{
		"tutoring", "mathematics", "science", "history", "geography",
		"physics", "chemistry", "biology",
	}},
}

// Categories возвращает таксономию в порядке приоритета, Other последней.
func Categories() []Category {
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, CategoryOther)
}

// IsValid сообщает, входит ли категория в таксономию.
func (c Category) IsValid() bool {
	if c == CategoryOther {
		return true
	}
	for _, r := range rules {
		if r.category == c {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory проверяет категорию, пришедшую от клиента.
// Пустая строка означает "не указана" и ошибкой не считается.
func ParseCategory(raw string) (Category, error) {
	if raw == "" {
		return "", nil
	}
	c := Category(raw)
	if !c.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "неизвестная категория навыка: "+raw)
	}
	return c, nil
}
