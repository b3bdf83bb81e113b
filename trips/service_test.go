package trips

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"voyago/errs"
	"voyago/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTripStore struct {
	trips map[string]models.Trip
	seq   int
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: map[string]models.Trip{}}
}

func (f *fakeTripStore) Save(_ context.Context, trip models.Trip) (models.Trip, error) {
	if trip.ID == "" {
		f.seq++
		trip.ID = fmt.Sprintf("trip-%d", f.seq)
	}
	if trip.CreatedAt == nil {
		now := time.Now()
		trip.CreatedAt = &now
	}
	f.trips[trip.ID] = trip
	return trip, nil
}

func (f *fakeTripStore) FindByID(_ context.Context, id string) (models.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return models.Trip{}, errs.NotFound("trip", id)
	}
	return trip, nil
}

func (f *fakeTripStore) FindByUserID(_ context.Context, userID string) ([]models.Trip, error) {
	result := []models.Trip{}
	for _, trip := range f.trips {
		if trip.UserID == userID {
			result = append(result, trip)
		}
	}
	return result, nil
}

func (f *fakeTripStore) FindTripsByMemberID(_ context.Context, userID string) ([]models.Trip, error) {
	result := []models.Trip{}
	for _, trip := range f.trips {
		if trip.UserID == userID {
			continue
		}
		for _, m := range trip.Members {
			if m.ID == userID {
				result = append(result, trip)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeTripStore) DeleteByID(_ context.Context, id string) error {
	delete(f.trips, id)
	return nil
}

type fakePlanStore struct {
	plans        map[string]models.Plan
	seq          int
	deletedTrips []string
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{plans: map[string]models.Plan{}}
}

func (f *fakePlanStore) Save(_ context.Context, plan models.Plan) (models.Plan, error) {
	if plan.ID == "" {
		f.seq++
		plan.ID = fmt.Sprintf("plan-%d", f.seq)
	}
	f.plans[plan.ID] = plan
	return plan, nil
}

func (f *fakePlanStore) FindByID(_ context.Context, id string) (models.Plan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return models.Plan{}, errs.NotFound("plan", id)
	}
	return plan, nil
}

func (f *fakePlanStore) FindByTripID(_ context.Context, tripID string) ([]models.Plan, error) {
	result := []models.Plan{}
	for _, plan := range f.plans {
		if plan.TripID == tripID {
			result = append(result, plan)
		}
	}
	return result, nil
}

func (f *fakePlanStore) DeleteByID(_ context.Context, id string) error {
	delete(f.plans, id)
	return nil
}

func (f *fakePlanStore) DeleteByTripID(_ context.Context, tripID string) error {
	f.deletedTrips = append(f.deletedTrips, tripID)
	for id, plan := range f.plans {
		if plan.TripID == tripID {
			delete(f.plans, id)
		}
	}
	return nil
}

type fakeFiles struct {
	deleted []string
	err     error
}

func (f *fakeFiles) Delete(name string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, name)
	return nil
}

type fakeDirectory struct {
	users map[string]models.UserSummary
}

func (f *fakeDirectory) Lookup(_ context.Context, userID string) (models.UserSummary, error) {
	user, ok := f.users[userID]
	if !ok {
		return models.UserSummary{}, errs.NotFound("user", userID)
	}
	return user, nil
}

type fakeFollows struct {
	following map[string][]string
	err       error
}

func (f *fakeFollows) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.following[userID], nil
}

type fixture struct {
	svc     *Service
	store   *fakeTripStore
	plans   *fakePlanStore
	files   *fakeFiles
	follows *fakeFollows
}

func newFixture() *fixture {
	store := newFakeTripStore()
	planStore := newFakePlanStore()
	files := &fakeFiles{}
	dir := &fakeDirectory{users: map[string]models.UserSummary{
		"alice": {ID: "alice", FirstName: "Alice", LastName: "Kim", ProfilePicture: "alice.jpg"},
	}}
	follows := &fakeFollows{following: map[string][]string{}}
	return &fixture{
		svc:     NewService(store, planStore, files, dir, follows, nil),
		store:   store,
		plans:   planStore,
		files:   files,
		follows: follows,
	}
}

func validTrip(owner string) models.Trip {
	return models.Trip{
		UserID:    owner,
		Title:     "Jeju Island",
		StartDate: "2026-10-01",
		EndDate:   "2026-10-05",
	}
}

func TestCreateTripValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateTrip(ctx, models.Trip{Title: "no owner", StartDate: "2026-10-01", EndDate: "2026-10-05"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	trip := validTrip("owner")
	trip.EndDate = "2026-09-30"
	_, err = f.svc.CreateTrip(ctx, trip)
	assert.ErrorIs(t, err, errs.ErrValidation)

	trip = validTrip("owner")
	trip.StartDate = "01/10/2026"
	_, err = f.svc.CreateTrip(ctx, trip)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCreateTripDefaultsVisibility(t *testing.T) {
	f := newFixture()

	saved, err := f.svc.CreateTrip(context.Background(), validTrip("owner"))
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityNone, saved.IsPublic)
	assert.NotEmpty(t, saved.ID)
}

func TestCreateTripNormalizesTags(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	trip := validTrip("owner")
	trip.Tags = " Beach, food ,BEACH,, hiking"
	saved, err := f.svc.CreateTrip(ctx, trip)
	require.NoError(t, err)
	assert.Equal(t, "beach,food,hiking", saved.Tags)

	in := validTrip("owner")
	in.Tags = "Food, Food , museums"
	updated, err := f.svc.UpdateTrip(ctx, saved.ID, "owner", in)
	require.NoError(t, err)
	assert.Equal(t, "food,museums", updated.Tags)
}

func TestUpdateTripForbiddenForNonMember(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))

	_, err := f.svc.UpdateTrip(ctx, saved.ID, "stranger", validTrip("owner"))
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestUpdateTripDeletesReplacedCoverPhoto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	trip := validTrip("owner")
	trip.CoverPhoto = "cover/old.jpg"
	saved, _ := f.svc.CreateTrip(ctx, trip)

	in := validTrip("owner")
	in.CoverPhoto = "cover/new.jpg"
	updated, err := f.svc.UpdateTrip(ctx, saved.ID, "owner", in)
	require.NoError(t, err)
	assert.Equal(t, "cover/new.jpg", updated.CoverPhoto)
	assert.Equal(t, []string{"cover/old.jpg"}, f.files.deleted)

	// unchanged cover does not delete anything
	_, err = f.svc.UpdateTrip(ctx, saved.ID, "owner", in)
	require.NoError(t, err)
	assert.Len(t, f.files.deleted, 1)
}

func TestUpdateTripSwallowsCoverDeleteFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	trip := validTrip("owner")
	trip.CoverPhoto = "cover/old.jpg"
	saved, _ := f.svc.CreateTrip(ctx, trip)

	f.files.err = errors.New("disk gone")
	in := validTrip("owner")
	in.CoverPhoto = "cover/new.jpg"
	_, err := f.svc.UpdateTrip(ctx, saved.ID, "owner", in)
	assert.NoError(t, err)
}

func TestUpdateTripSharedAtSetOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))

	first := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	in := validTrip("owner")
	in.SharedAt = &first
	updated, err := f.svc.UpdateTrip(ctx, saved.ID, "owner", in)
	require.NoError(t, err)
	require.NotNil(t, updated.SharedAt)
	assert.True(t, updated.SharedAt.Equal(first))

	second := first.AddDate(0, 0, 7)
	in.SharedAt = &second
	updated, err = f.svc.UpdateTrip(ctx, saved.ID, "owner", in)
	require.NoError(t, err)
	assert.True(t, updated.SharedAt.Equal(first))
}

func TestUpdateTripKeepsOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))

	in := validTrip("hijacker")
	updated, err := f.svc.UpdateTrip(ctx, saved.ID, "owner", in)
	require.NoError(t, err)
	assert.Equal(t, "owner", updated.UserID)
}

func TestDeleteTripCascadesPlans(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))
	_, err := f.svc.CreatePlan(ctx, "owner", models.Plan{TripID: saved.ID, Title: "Dinner", Type: models.PlanRestaurant})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTrip(ctx, saved.ID, "owner"))
	assert.Equal(t, []string{saved.ID}, f.plans.deletedTrips)
	_, err = f.svc.GetTrip(ctx, saved.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAddMemberIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))

	member := models.UserSummary{ID: "alice", FirstName: "Alice"}
	trip, err := f.svc.AddMember(ctx, saved.ID, "owner", member)
	require.NoError(t, err)
	assert.Len(t, trip.Members, 1)

	trip, err = f.svc.AddMember(ctx, saved.ID, "owner", member)
	require.NoError(t, err)
	assert.Len(t, trip.Members, 1)
}

func TestMemberCanEditTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))
	_, err := f.svc.AddMember(ctx, saved.ID, "owner", models.UserSummary{ID: "alice"})
	require.NoError(t, err)

	in := validTrip("owner")
	in.Title = "Jeju Island v2"
	updated, err := f.svc.UpdateTrip(ctx, saved.ID, "alice", in)
	require.NoError(t, err)
	assert.Equal(t, "Jeju Island v2", updated.Title)
}

func TestRemoveMemberNoOpForUnknown(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))
	_, err := f.svc.AddMember(ctx, saved.ID, "owner", models.UserSummary{ID: "alice"})
	require.NoError(t, err)

	trip, err := f.svc.RemoveMember(ctx, saved.ID, "owner", "nobody")
	require.NoError(t, err)
	assert.Len(t, trip.Members, 1)

	trip, err = f.svc.RemoveMember(ctx, saved.ID, "owner", "alice")
	require.NoError(t, err)
	assert.Empty(t, trip.Members)
}

func TestReplaceSharedUsersNilBecomesEmpty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))

	trip, err := f.svc.ReplaceSharedUsers(ctx, saved.ID, "owner", nil)
	require.NoError(t, err)
	assert.NotNil(t, trip.SharedWithUsers)
	assert.Empty(t, trip.SharedWithUsers)
}

func TestCheckAccessConsultsFollowGraph(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	trip := validTrip("owner")
	trip.IsPublic = models.VisibilityFollower
	saved, _ := f.svc.CreateTrip(ctx, trip)

	f.follows.following["fan"] = []string{"owner"}

	allowed, err := f.svc.CheckAccess(ctx, saved.ID, "fan")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = f.svc.CheckAccess(ctx, saved.ID, "stranger")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCheckAccessFollowGraphFailureDenies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	trip := validTrip("owner")
	trip.IsPublic = models.VisibilityFollower
	saved, _ := f.svc.CreateTrip(ctx, trip)

	f.follows.err = errors.New("redis down")
	allowed, err := f.svc.CheckAccess(ctx, saved.ID, "fan")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestGetTripHydratesCommentAuthors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))

	_, err := f.svc.CreatePlan(ctx, "owner", models.Plan{
		TripID: saved.ID,
		Title:  "Dinner",
		Type:   models.PlanRestaurant,
		Comments: []models.PlanComment{
			{ID: "c1", UserID: "alice", Content: "book early"},
			{ID: "c2", UserID: "ghost", Content: "who am I"},
		},
	})
	require.NoError(t, err)

	trip, err := f.svc.GetTrip(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, trip.Plans, 1)
	comments := trip.Plans[0].Comments
	require.Len(t, comments, 2)
	assert.Equal(t, "Alice Kim", comments[0].UserName)
	assert.Equal(t, "alice.jpg", comments[0].UserAvatar)
	// unknown author stays blank, read still succeeds
	assert.Empty(t, comments[1].UserName)
}

func TestCreatePlanForbiddenForNonMember(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))

	_, err := f.svc.CreatePlan(ctx, "stranger", models.Plan{TripID: saved.ID, Title: "Sneaky"})
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestUpdatePlanKeepsIdentityAndCreatedAt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	saved, _ := f.svc.CreateTrip(ctx, validTrip("owner"))

	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	plan, err := f.svc.CreatePlan(ctx, "owner", models.Plan{
		TripID: saved.ID, Title: "Dinner", Type: models.PlanRestaurant, CreatedAt: &created,
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdatePlan(ctx, "owner", plan.ID, models.Plan{Title: "Late dinner", Type: models.PlanRestaurant})
	require.NoError(t, err)
	assert.Equal(t, plan.ID, updated.ID)
	assert.Equal(t, saved.ID, updated.TripID)
	require.NotNil(t, updated.CreatedAt)
	assert.True(t, updated.CreatedAt.Equal(created))
}
