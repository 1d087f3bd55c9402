package badges

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub.ru/gamification/internal/common"
)

// fakeStore — хранилище бейджей в памяти для тестов сервиса.
type fakeStore struct {
	badges   []*Badge
	earned   map[int64]time.Time
	featured map[int64]bool
}

func newFakeStore(badges []*Badge) *fakeStore {
	return &fakeStore{
		badges:   badges,
		earned:   make(map[int64]time.Time),
		featured: make(map[int64]bool),
	}
}

func (f *fakeStore) ListActive(_ context.Context, category, rarity string) ([]*Badge, error) {
	var result []*Badge
	for _, b := range f.badges {
		if category != "" && b.Category != category {
			continue
		}
		if rarity != "" && b.Rarity != rarity {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*Badge, error) {
	for _, b := range f.badges {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, common.ErrBadgeNotFound
}

func (f *fakeStore) EarnedAt(_ context.Context, _ int64) (map[int64]time.Time, error) {
	result := make(map[int64]time.Time, len(f.earned))
	for id, at := range f.earned {
		result[id] = at
	}
	return result, nil
}

func (f *fakeStore) Award(_ context.Context, _ int64, badge *Badge) (bool, error) {
	if _, has := f.earned[badge.ID]; has {
		return false, nil
	}
	f.earned[badge.ID] = time.Now()
	badge.AwardedCount++
	return true, nil
}

func (f *fakeStore) ListUserBadges(_ context.Context, _ int64) ([]*UserBadge, error) {
	var result []*UserBadge
	for _, b := range f.badges {
		if at, has := f.earned[b.ID]; has {
			result = append(result, &UserBadge{
				Badge: b, EarnedAt: at, IsFeatured: f.featured[b.ID],
			})
		}
	}
	return result, nil
}

func (f *fakeStore) CountFeatured(_ context.Context, _ int64) (int, error) {
	count := 0
	for _, v := range f.featured {
		if v {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) SetFeatured(_ context.Context, _ int64, badgeID int64, featured bool) (bool, error) {
	if _, has := f.earned[badgeID]; !has {
		return false, nil
	}
	f.featured[badgeID] = featured
	return true, nil
}

func (f *fakeStore) RecentEarners(_ context.Context, _ int64, _ int) ([]*Earner, error) {
	return nil, nil
}

// fakeStats — источник счётчиков в памяти.
type fakeStats struct {
	stats  UserStats
	cutoff time.Time
	rank   int
}

func (f *fakeStats) Stats(_ context.Context, _ int64) (*UserStats, error) {
	s := f.stats
	return &s, nil
}

func (f *fakeStats) EarlyAdopterCutoff(_ context.Context, _ time.Duration) (time.Time, error) {
	return f.cutoff, nil
}

func (f *fakeStats) DepartmentRank(_ context.Context, _ int64) (int, error) {
	return f.rank, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testBadges() []*Badge {
	return []*Badge{
		{ID: 1, Name: "First Post", Category: CategoryEngagement, Rarity: RarityCommon,
			Criteria: Criteria{KindPostsCount, 1}},
		{ID: 2, Name: "Prolific Writer", Category: CategoryEngagement, Rarity: RarityRare,
			Criteria: Criteria{KindPostsCount, 50}},
		{ID: 3, Name: "Reputation Master", Category: CategoryMilestone, Rarity: RarityLegendary,
			Criteria: Criteria{KindReputation, 1000}},
		{ID: 4, Name: "Department Hero", Category: CategoryMilestone, Rarity: RarityLegendary,
			Criteria: Criteria{KindDepartmentRank, 3}},
	}
}

func testOptions() Options {
	return Options{EarlyAdopterWindow: 30 * 24 * time.Hour, MaxFeatured: 3, Enabled: true}
}

func TestEvaluateAllAwardsQualified(t *testing.T) {
	store := newFakeStore(testBadges())
	stats := &fakeStats{stats: UserStats{TotalPosts: 50, Reputation: 100}, rank: 10}
	svc := NewService(store, stats, testOptions(), quietLogger())

	awarded, err := svc.EvaluateAll(context.Background(), 7)
	require.NoError(t, err)

	names := make([]string, 0, len(awarded))
	for _, b := range awarded {
		names = append(names, b.Name)
	}
	assert.ElementsMatch(t, []string{"First Post", "Prolific Writer"}, names)
}

// Достижение порога 49→50 постов открывает бейдж при следующей проверке.
func TestEvaluateAllThresholdCrossing(t *testing.T) {
	store := newFakeStore(testBadges())
	stats := &fakeStats{stats: UserStats{TotalPosts: 49}}
	svc := NewService(store, stats, testOptions(), quietLogger())

	awarded, err := svc.EvaluateAll(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, "First Post", awarded[0].Name)

	stats.stats.TotalPosts = 50
	awarded, err = svc.EvaluateAll(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, "Prolific Writer", awarded[0].Name)
}

// Повторная проверка не выдаёт бейдж второй раз.
func TestEvaluateAllIdempotent(t *testing.T) {
	store := newFakeStore(testBadges())
	stats := &fakeStats{stats: UserStats{TotalPosts: 50}}
	svc := NewService(store, stats, testOptions(), quietLogger())

	awarded, err := svc.EvaluateAll(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, awarded, 2)

	awarded, err = svc.EvaluateAll(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestEvaluateAllDepartmentRank(t *testing.T) {
	store := newFakeStore(testBadges())
	stats := &fakeStats{stats: UserStats{}, rank: 2}
	svc := NewService(store, stats, testOptions(), quietLogger())

	awarded, err := svc.EvaluateAll(context.Background(), 7)
	require.NoError(t, err)

	found := false
	for _, b := range awarded {
		if b.Name == "Department Hero" {
			found = true
		}
	}
	assert.True(t, found, "топ-3 департамента должен получить бейдж")
}

func TestEvaluateAllDisabled(t *testing.T) {
	store := newFakeStore(testBadges())
	stats := &fakeStats{stats: UserStats{TotalPosts: 100}}
	opts := testOptions()
	opts.Enabled = false
	svc := NewService(store, stats, opts, quietLogger())

	awarded, err := svc.EvaluateAll(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestFeatureLimit(t *testing.T) {
	badges := []*Badge{
		{ID: 1, Criteria: Criteria{KindPostsCount, 1}},
		{ID: 2, Criteria: Criteria{KindPostsCount, 1}},
		{ID: 3, Criteria: Criteria{KindPostsCount, 1}},
		{ID: 4, Criteria: Criteria{KindPostsCount, 1}},
	}
	store := newFakeStore(badges)
	for _, b := range badges {
		store.earned[b.ID] = time.Now()
	}
	svc := NewService(store, &fakeStats{}, testOptions(), quietLogger())
	ctx := context.Background()

	require.NoError(t, svc.Feature(ctx, 7, 1))
	require.NoError(t, svc.Feature(ctx, 7, 2))
	require.NoError(t, svc.Feature(ctx, 7, 3))

	err := svc.Feature(ctx, 7, 4)
	assert.ErrorIs(t, err, common.ErrMaxFeaturedBadges)

	// Повторное закрепление уже закреплённого — no-op даже при полном лимите
	assert.NoError(t, svc.Feature(ctx, 7, 1))
	count, err := store.CountFeatured(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// После открепления место освобождается
	require.NoError(t, svc.Unfeature(ctx, 7, 1))
	assert.NoError(t, svc.Feature(ctx, 7, 4))
}

func TestFeatureNotOwned(t *testing.T) {
	store := newFakeStore(testBadges())
	svc := NewService(store, &fakeStats{}, testOptions(), quietLogger())

	err := svc.Feature(context.Background(), 7, 1)
	assert.ErrorIs(t, err, common.ErrBadgeNotOwned)
}

// Ручная выдача идемпотентна и не смотрит на критерии.
func TestAwardBadgeManual(t *testing.T) {
	store := newFakeStore(testBadges())
	svc := NewService(store, &fakeStats{}, testOptions(), quietLogger())
	ctx := context.Background()

	badge, fresh, err := svc.AwardBadge(ctx, 7, 3)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, "Reputation Master", badge.Name)

	_, fresh, err = svc.AwardBadge(ctx, 7, 3)
	require.NoError(t, err)
	assert.False(t, fresh)

	_, _, err = svc.AwardBadge(ctx, 7, 999)
	assert.ErrorIs(t, err, common.ErrBadgeNotFound)
}

func TestProgressAllSortedByPercentage(t *testing.T) {
	store := newFakeStore(testBadges())
	stats := &fakeStats{stats: UserStats{TotalPosts: 25, Reputation: 900}}
	svc := NewService(store, stats, testOptions(), quietLogger())

	progress, err := svc.ProgressAll(context.Background(), 7)
	require.NoError(t, err)
	require.NotEmpty(t, progress)

	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t,
			progress[i-1].Progress.Percentage, progress[i].Progress.Percentage,
			"прогресс должен убывать")
	}
	// Ближе всего — First Post (25/1, зажато до 100%)
	assert.Equal(t, "First Post", progress[0].Badge.Name)
}
