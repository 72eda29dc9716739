package skill

import (
	"github.com/google/uuid"
)

// TutorProfile — публичные данные пользователя, присоединённые к навыку.
type TutorProfile struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PhotoURL    string    `json:"photo_url"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
}

// Offering — одна строка "пользователь предлагает навык".
// UserID == uuid.Nil означает, что владелец неизвестен.
type Offering struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Skill       string       `json:"skill"`
	Category    Category     `json:"category"`
	Description string       `json:"description"`
	User        TutorProfile `json:"user"`
}

// SkillSummary — краткое описание навыка в карточке.
type SkillSummary struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// TutorCard — агрегированная карточка преподавателя.
type TutorCard struct {
	ID        uuid.UUID      `json:"id"`
	User      TutorProfile   `json:"user"`
	AllSkills []SkillSummary `json:"all_skills"`
}

// HasSkill сообщает, есть ли в карточке навык с таким названием.
func (c *TutorCard) HasSkill(name string) bool {
	for _, s := range c.AllSkills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Aggregate группирует плоский список навыков в карточки по пользователям.
//
// Карточки идут в порядке первого появления пользователя. Повтор названия
// навыка у того же пользователя отбрасывается, остаётся первая категория.
// Строки без пользователя пропускаются.
//
// Обычно карточка создаётся со списком из одного навыка. Строка с пустым
// названием тоже заводит карточку, но навык в неё не попадает: если такая
// строка у пользователя первая, AllSkills начинается пустым и дополняется
// следующими строками.
func Aggregate(offerings []Offering) []TutorCard {
	index := make(map[uuid.UUID]int, len(offerings))
	cards := make([]TutorCard, 0)

	for _, o := range offerings {
		if o.UserID == uuid.Nil {
			continue
		}

		pos, seen := index[o.UserID]
		if !seen {
			card := TutorCard{
				ID:        o.UserID,
				User:      o.User,
				AllSkills: []SkillSummary{},
			}
			card.User.ID = o.UserID
			if o.Skill != "" {
				card.AllSkills = append(card.AllSkills, SkillSummary{Name: o.Skill, Category: o.Category})
			}
			index[o.UserID] = len(cards)
			cards = append(cards, card)
			continue
		}

		if o.Skill == "" || cards[pos].HasSkill(o.Skill) {
			continue
		}
		cards[pos].AllSkills = append(cards[pos].AllSkills, SkillSummary{Name: o.Skill, Category: o.Category})
	}

	return cards
}
