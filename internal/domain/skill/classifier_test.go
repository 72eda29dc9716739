package skill

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Category
	}{
		{"пустая строка", "", CategoryOther},
		{"программирование", "JavaScript Programming", CategoryTech},
		{"гитара", "Classical Guitar Lessons", CategoryMusic},
		{"йога", "Yoga", CategoryFitness},
		{"регистр не важен", "PYTHON", CategoryTech},
		{"бизнес", "Digital Marketing", CategoryBusiness},
		{"письмо", "Proofreading", CategoryWriting},
		{"коммуникация", "Negotiation skills", CategoryCommunication},
		{"дизайн интерфейсов", "UI/UX", CategoryDesign},
		{"видео", "Filmmaking", CategoryPhotography},
		{"ремонт", "Plumbing", CategoryTrades},
		{"кулинария", "Pastry", CategoryCooking},
		{"академические", "Organic Chemistry", CategoryTutoring},
		{"нет совпадений", "Juggling", CategoryOther},
		{"юникод", "Ñandú 日本", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestClassify_OrderIsTieBreak(t *testing.T) {
	// Language объявлена раньше Cooking & Baking.
	assert.Equal(t, CategoryLanguage, Classify("Japanese Cooking"))
	// "web design" перекрыт ключом "web" из Tech.
	assert.Equal(t, CategoryTech, Classify("Web Design"))
	// "photography" перекрыт правилом Art.
	assert.Equal(t, CategoryArt, Classify("Photography"))
	// "art" совпадает как подстрока.
	assert.Equal(t, CategoryArt, Classify("Martial arts"))
}

func TestClassify_Totality(t *testing.T) {
	valid := make(map[Category]bool)
	for _, c := range Categories() {
		valid[c] = true
	}

	property := func(s string) bool {
		got := Classify(s)
		return valid[got] && got == Classify(s)
	}
	require.NoError(t, quick.Check(property, &quick.Config{MaxCount: 2000}))
}

func TestResolveCategory(t *testing.T) {
	assert.Equal(t, CategoryTech, ResolveCategory(CategoryTech, "Guitar"), "явная категория важнее текста")
	assert.Equal(t, CategoryMusic, ResolveCategory(CategoryOther, "Guitar"))
	assert.Equal(t, CategoryMusic, ResolveCategory("", "Guitar"))
	assert.Equal(t, CategoryMusic, ResolveCategory(Category("Sports"), "Guitar"), "значение вне таксономии переклассифицируется")
	assert.Equal(t, CategoryOther, ResolveCategory("", ""))
}

func TestCategories_OrderAndValidity(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 14)
	assert.Equal(t, CategoryTech, cats[0])
	assert.Equal(t, CategoryTutoring, cats[12])
	assert.Equal(t, CategoryOther, cats[13])

	for _, c := range cats {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, Category(CategoryAll).IsValid())

	// Вызывающий не может испортить таксономию.
	cats[0] = "Hacked"
	assert.Equal(t, CategoryTech, Categories()[0])
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Cooking & Baking")
	require.NoError(t, err)
	assert.Equal(t, CategoryCooking, c)

	c, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, Category(""), c)

	_, err = ParseCategory("tech")
	assert.Error(t, err, "сравнение регистрозависимое")
}
