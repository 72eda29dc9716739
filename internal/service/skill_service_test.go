package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/backend/internal/domain/skill"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/pkg/apperror"
)

type skillFixture struct {
	users  *memoryUsers
	skills *memorySkills
	cache  *CacheService
	svc    *SkillService
}

func newSkillFixture(t *testing.T, ttl time.Duration) *skillFixture {
	users := newMemoryUsers()
	skills := newMemorySkills(users)
	cache, _ := newTestCache(t)
	return &skillFixture{
		users:  users,
		skills: skills,
		cache:  cache,
		svc:    NewSkillService(skills, cache, ttl),
	}
}

func (f *skillFixture) offer(t *testing.T, userID uuid.UUID, name, category string) *models.Skill {
	t.Helper()
	created, err := f.svc.Create(context.Background(), userID, models.SkillInput{Skill: name, Category: category})
	require.NoError(t, err)
	return created
}

func cardNames(cards []skill.TutorCard) []string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.User.Name)
	}
	return names
}

func TestSkillService_CreateClassifies(t *testing.T) {
	f := newSkillFixture(t, 0)
	alice := f.users.add("Alice")

	created := f.offer(t, alice.ID, "  Python Programming ", "")
	assert.Equal(t, "Python Programming", created.Name)
	assert.Equal(t, string(skill.CategoryTech), created.Category)

	explicit := f.offer(t, alice.ID, "Public Speaking", "Communication")
	assert.Equal(t, string(skill.CategoryCommunication), explicit.Category)

	other := f.offer(t, alice.ID, "Guitar", "Other")
	assert.Equal(t, string(skill.CategoryMusic), other.Category)
}

func TestSkillService_CreateValidation(t *testing.T) {
	f := newSkillFixture(t, 0)
	alice := f.users.add("Alice")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, alice.ID, models.SkillInput{Skill: "   "})
	assert.True(t, apperror.IsValidation(err))

	_, err = f.svc.Create(ctx, alice.ID, models.SkillInput{Skill: "Yoga", Category: "Sorcery"})
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, f.skills.rows)
}

func TestSkillService_TutorsAggregatesAndFilters(t *testing.T) {
	f := newSkillFixture(t, 0)
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	me := f.users.add("Me")
	ctx := context.Background()

	f.offer(t, alice.ID, "Python Programming", "")
	f.offer(t, bob.ID, "Guitar", "")
	f.offer(t, alice.ID, "Yoga", "")
	f.offer(t, me.ID, "Baking Bread", "")

	cards, err := f.svc.Tutors(ctx, me.ID, "", "")
	require.NoError(t, err)
	require.Equal(t, []string{"Alice", "Bob"}, cardNames(cards))
	assert.Equal(t, []skill.SkillSummary{
		{Name: "Python Programming", Category: skill.CategoryTech},
		{Name: "Yoga", Category: skill.CategoryFitness},
	}, cards[0].AllSkills)

	cards, err = f.svc.Tutors(ctx, me.ID, "", "Music")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, cardNames(cards))

	cards, err = f.svc.Tutors(ctx, me.ID, "PYTHON", "All")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, cardNames(cards))

	cards, err = f.svc.Tutors(ctx, uuid.Nil, "bread", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Me"}, cardNames(cards))

	_, err = f.svc.Tutors(ctx, me.ID, "", "Sorcery")
	assert.True(t, apperror.IsValidation(err))
}

func TestSkillService_TutorsSkipsOrphans(t *testing.T) {
	f := newSkillFixture(t, 0)
	alice := f.users.add("Alice")
	f.offer(t, alice.ID, "Guitar", "")
	f.skills.rows = append(f.skills.rows, models.Skill{ID: uuid.New(), UserID: uuid.New(), Name: "Ghost Skill", CreatedAt: time.Now()})

	cards, err := f.svc.Tutors(context.Background(), uuid.Nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, cardNames(cards))

	offerings, err := f.svc.Offerings(context.Background(), uuid.Nil)
	require.NoError(t, err)
	require.Len(t, offerings, 2)
	assert.Equal(t, uuid.Nil, offerings[1].UserID)
}

func TestSkillService_TutorsCacheAndInvalidation(t *testing.T) {
	f := newSkillFixture(t, time.Minute)
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	ctx := context.Background()

	f.offer(t, alice.ID, "Guitar", "")

	_, err := f.svc.Tutors(ctx, uuid.Nil, "", "")
	require.NoError(t, err)
	_, err = f.svc.Tutors(ctx, uuid.Nil, "gui", "Music")
	require.NoError(t, err)
	assert.Equal(t, 1, f.skills.listed)

	// Другой исключаемый пользователь кэшируется отдельно.
	_, err = f.svc.Tutors(ctx, bob.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, f.skills.listed)

	f.offer(t, bob.ID, "Yoga", "")

	cards, err := f.svc.Tutors(ctx, uuid.Nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, f.skills.listed)
	assert.Equal(t, []string{"Alice", "Bob"}, cardNames(cards))
}

func TestSkillService_TutorsByCategory(t *testing.T) {
	f := newSkillFixture(t, 0)
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	ctx := context.Background()

	f.offer(t, alice.ID, "Spanish Language", "")
	f.offer(t, bob.ID, "Graphic Design", "")

	cards, err := f.svc.TutorsByCategory(ctx, "Art")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, cardNames(cards))

	_, err = f.svc.TutorsByCategory(ctx, "")
	assert.True(t, apperror.IsValidation(err))
}

func TestSkillService_UpdateReclassifiesOnRename(t *testing.T) {
	f := newSkillFixture(t, 0)
	alice := f.users.add("Alice")
	ctx := context.Background()

	created := f.offer(t, alice.ID, "Guitar", "")

	name := "Yoga"
	updated, err := f.svc.Update(ctx, alice.ID, created.ID, UpdateSkillInput{Skill: &name})
	require.NoError(t, err)
	assert.Equal(t, string(skill.CategoryFitness), updated.Category)

	category := "Business"
	updated, err = f.svc.Update(ctx, alice.ID, created.ID, UpdateSkillInput{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "Yoga", updated.Name)
	assert.Equal(t, string(skill.CategoryBusiness), updated.Category)

	description := "Утренние занятия"
	updated, err = f.svc.Update(ctx, alice.ID, created.ID, UpdateSkillInput{Description: &description})
	require.NoError(t, err)
	assert.Equal(t, string(skill.CategoryBusiness), updated.Category)
	assert.Equal(t, description, updated.Description)
}

func TestSkillService_OwnerChecks(t *testing.T) {
	f := newSkillFixture(t, 0)
	alice := f.users.add("Alice")
	mallory := f.users.add("Mallory")
	ctx := context.Background()

	created := f.offer(t, alice.ID, "Guitar", "")

	name := "Drums"
	_, err := f.svc.Update(ctx, mallory.ID, created.ID, UpdateSkillInput{Skill: &name})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = f.svc.Delete(ctx, mallory.ID, created.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = f.svc.Delete(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrSkillNotFound)

	require.NoError(t, f.svc.Delete(ctx, alice.ID, created.ID))
	assert.Empty(t, f.skills.rows)
}

func TestSkillService_ListByUserRepairsStoredCategory(t *testing.T) {
	f := newSkillFixture(t, 0)
	alice := f.users.add("Alice")
	f.skills.rows = append(f.skills.rows,
		models.Skill{ID: uuid.New(), UserID: alice.ID, Name: "Yoga", Category: ""},
		models.Skill{ID: uuid.New(), UserID: alice.ID, Name: "Guitar", Category: "Other"},
	)

	skills, err := f.svc.ListByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, string(skill.CategoryFitness), skills[0].Category)
	assert.Equal(t, string(skill.CategoryMusic), skills[1].Category)
}

func TestSkillService_ReplaceForUser(t *testing.T) {
	f := newSkillFixture(t, 0)
	alice := f.users.add("Alice")
	bob := f.users.add("Bob")
	ctx := context.Background()

	f.offer(t, alice.ID, "Guitar", "")
	f.offer(t, bob.ID, "Yoga", "")

	replaced, err := f.svc.ReplaceForUser(ctx, alice.ID, []models.SkillInput{
		{Skill: "SQL"},
		{Skill: "Baking Bread"},
	})
	require.NoError(t, err)
	require.Len(t, replaced, 2)
	assert.Equal(t, string(skill.CategoryCooking), replaced[1].Category)

	mine, err := f.svc.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := f.svc.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	_, err = f.svc.ReplaceForUser(ctx, alice.ID, []models.SkillInput{{Skill: ""}})
	assert.True(t, apperror.IsValidation(err))
}

// blockingSkills задерживает первый ListWithUsers уже после чтения строк.
type blockingSkills struct {
	*memorySkills
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (b *blockingSkills) ListWithUsers(ctx context.Context, excludeUserID uuid.UUID) ([]models.SkillWithUser, error) {
	rows, err := b.memorySkills.ListWithUsers(ctx, excludeUserID)
	b.once.Do(func() {
		close(b.loaded)
		<-b.release
	})
	return rows, err
}

func TestSkillService_TutorsSeesSkillCreatedDuringLoad(t *testing.T) {
	users := newMemoryUsers()
	repo := &blockingSkills{
		memorySkills: newMemorySkills(users),
		loaded:       make(chan struct{}),
		release:      make(chan struct{}),
	}
	cache, _ := newTestCache(t)
	svc := NewSkillService(repo, cache, time.Minute)
	alice := users.add("Alice")
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Tutors(ctx, uuid.Nil, "", "")
		done <- err
	}()

	<-repo.loaded
	_, err := svc.Create(ctx, alice.ID, models.SkillInput{Skill: "Guitar"})
	require.NoError(t, err)
	close(repo.release)
	require.NoError(t, <-done)

	cards, err := svc.Tutors(ctx, uuid.Nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, cardNames(cards))
}
