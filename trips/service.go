package trips

import (
	"context"
	"log"
	"strings"
	"time"

	"voyago/errs"
	"voyago/models"
	"voyago/mq"
	"voyago/utils"
)

const dateLayout = "2006-01-02"

// TripStore is the persistence surface the service needs; *Store satisfies it.
type TripStore interface {
	Save(ctx context.Context, trip models.Trip) (models.Trip, error)
	FindByID(ctx context.Context, id string) (models.Trip, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Trip, error)
	FindTripsByMemberID(ctx context.Context, userID string) ([]models.Trip, error)
	DeleteByID(ctx context.Context, id string) error
}

type PlanStore interface {
	Save(ctx context.Context, plan models.Plan) (models.Plan, error)
	FindByID(ctx context.Context, id string) (models.Plan, error)
	FindByTripID(ctx context.Context, tripID string) ([]models.Plan, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByTripID(ctx context.Context, tripID string) error
}

// FileStore removes stored assets; cover-photo cleanup is best effort.
type FileStore interface {
	Delete(name string) error
}

// Directory resolves user ids to display summaries for comment hydration.
type Directory interface {
	Lookup(ctx context.Context, userID string) (models.UserSummary, error)
}

// FollowGraph answers which owners a requester follows.
type FollowGraph interface {
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// Service owns the trip+plan lifecycle: all mutations flow through it, never
// through the stores directly.
type Service struct {
	store   TripStore
	plans   PlanStore
	files   FileStore
	users   Directory
	follows FollowGraph
	events  *mq.Emitter
}

func NewService(store TripStore, plans PlanStore, files FileStore, users Directory, follows FollowGraph, events *mq.Emitter) *Service {
	return &Service{store: store, plans: plans, files: files, users: users, follows: follows, events: events}
}

func validateDates(start, end string) error {
	if start == "" || end == "" {
		return errs.Validation("startDate and endDate are required")
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return errs.Validation("startDate must be yyyy-MM-dd")
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return errs.Validation("endDate must be yyyy-MM-dd")
	}
	if e.Before(s) {
		return errs.Validation("endDate before startDate")
	}
	return nil
}

// normalizeTags canonicalizes the comma-separated tag string: trimmed,
// lowercased, duplicates removed.
func normalizeTags(raw string) string {
	return strings.Join(utils.SplitTags(raw), ",")
}

func (s *Service) CreateTrip(ctx context.Context, trip models.Trip) (models.Trip, error) {
	if trip.UserID == "" {
		return models.Trip{}, errs.Validation("userId is required")
	}
	if err := validateDates(trip.StartDate, trip.EndDate); err != nil {
		return models.Trip{}, err
	}
	if trip.IsPublic == "" {
		trip.IsPublic = models.VisibilityNone
	}
	trip.Tags = normalizeTags(trip.Tags)

	saved, err := s.store.Save(ctx, trip)
	if err != nil {
		return models.Trip{}, err
	}
	s.emit(ctx, "trip-created", saved.ID, saved.UserID)
	return saved, nil
}

// GetTrip returns the trip with its plans attached, comment authors hydrated
// from the user directory. A failed lookup leaves that comment's name and
// avatar blank; it never fails the read.
func (s *Service) GetTrip(ctx context.Context, id string) (models.Trip, error) {
	trip, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Trip{}, err
	}

	planList, err := s.plans.FindByTripID(ctx, id)
	if err != nil {
		log.Printf("loading plans for trip %s: %v", id, err)
		planList = []models.Plan{}
	}
	for i := range planList {
		s.hydrateComments(ctx, planList[i].Comments)
	}
	trip.Plans = planList
	return trip, nil
}

func (s *Service) hydrateComments(ctx context.Context, comments []models.PlanComment) {
	for i, c := range comments {
		if c.UserID == "" {
			continue
		}
		user, err := s.users.Lookup(ctx, c.UserID)
		if err != nil {
			log.Printf("comment author lookup %s: %v", c.UserID, err)
			continue
		}
		comments[i].UserName = user.DisplayName()
		comments[i].UserAvatar = user.ProfilePicture
	}
}

func (s *Service) GetTripsByUser(ctx context.Context, userID string) ([]models.Trip, error) {
	return s.store.FindByUserID(ctx, userID)
}

func (s *Service) GetTripsByMember(ctx context.Context, userID string) ([]models.Trip, error) {
	return s.store.FindTripsByMemberID(ctx, userID)
}

// UpdateTrip rewrites the stored trip from the request. The previous cover
// photo asset is deleted when the cover changes (failure logged and
// swallowed). sharedAt is set exactly once: only when the stored trip has
// none and the request carries one.
func (s *Service) UpdateTrip(ctx context.Context, id, requesterID string, in models.Trip) (models.Trip, error) {
	trip, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Trip{}, err
	}
	if !IsMember(trip, requesterID) {
		return models.Trip{}, errs.Forbidden("not a member of trip " + id)
	}
	if err := validateDates(in.StartDate, in.EndDate); err != nil {
		return models.Trip{}, err
	}

	if in.CoverPhoto != "" && in.CoverPhoto != trip.CoverPhoto && trip.CoverPhoto != "" {
		if err := s.files.Delete(trip.CoverPhoto); err != nil {
			log.Printf("deleting old cover photo %s: %v", trip.CoverPhoto, err)
		}
	}

	trip.Title = in.Title
	trip.StartDate = in.StartDate
	trip.EndDate = in.EndDate
	trip.IsPublic = in.IsPublic
	trip.CoverPhoto = in.CoverPhoto
	trip.Content = in.Content
	trip.Tags = normalizeTags(in.Tags)
	trip.Members = in.Members
	if in.SharedWithUsers != nil {
		trip.SharedWithUsers = in.SharedWithUsers
	}
	if trip.SharedAt == nil && in.SharedAt != nil {
		trip.SharedAt = in.SharedAt
	}

	saved, err := s.store.Save(ctx, trip)
	if err != nil {
		return models.Trip{}, err
	}
	s.emit(ctx, "trip-updated", saved.ID, saved.UserID)
	return saved, nil
}

// DeleteTrip removes the trip and cascades to its plans; a failed cascade
// leaves orphans behind and is logged rather than surfaced.
func (s *Service) DeleteTrip(ctx context.Context, id, requesterID string) error {
	trip, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !IsMember(trip, requesterID) {
		return errs.Forbidden("not a member of trip " + id)
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}
	if err := s.plans.DeleteByTripID(ctx, id); err != nil {
		log.Printf("cascading plan delete for trip %s: %v", id, err)
	}
	s.emit(ctx, "trip-deleted", id, trip.UserID)
	return nil
}

// AddMember is idempotent: adding an id already on the list returns the trip
// unchanged.
func (s *Service) AddMember(ctx context.Context, tripID, requesterID string, member models.UserSummary) (models.Trip, error) {
	trip, err := s.store.FindByID(ctx, tripID)
	if err != nil {
		return models.Trip{}, err
	}
	if !IsMember(trip, requesterID) {
		return models.Trip{}, errs.Forbidden("not a member of trip " + tripID)
	}
	for _, m := range trip.Members {
		if m.ID == member.ID {
			return trip, nil
		}
	}
	trip.Members = append(trip.Members, member)
	return s.store.Save(ctx, trip)
}

// RemoveMember is a no-op for ids not on the list.
func (s *Service) RemoveMember(ctx context.Context, tripID, requesterID, memberID string) (models.Trip, error) {
	trip, err := s.store.FindByID(ctx, tripID)
	if err != nil {
		return models.Trip{}, err
	}
	if !IsMember(trip, requesterID) {
		return models.Trip{}, errs.Forbidden("not a member of trip " + tripID)
	}
	kept := trip.Members[:0:0]
	for _, m := range trip.Members {
		if m.ID != memberID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(trip.Members) {
		return trip, nil
	}
	trip.Members = kept
	return s.store.Save(ctx, trip)
}

func (s *Service) ReplaceSharedUsers(ctx context.Context, tripID, requesterID string, users []models.UserSummary) (models.Trip, error) {
	trip, err := s.store.FindByID(ctx, tripID)
	if err != nil {
		return models.Trip{}, err
	}
	if !IsMember(trip, requesterID) {
		return models.Trip{}, errs.Forbidden("not a member of trip " + tripID)
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	trip.SharedWithUsers = users
	return s.store.Save(ctx, trip)
}

func (s *Service) CheckMembership(ctx context.Context, tripID, userID string) (bool, error) {
	trip, err := s.store.FindByID(ctx, tripID)
	if err != nil {
		return false, err
	}
	return IsMember(trip, userID), nil
}

// CheckAccess evaluates view access for the requester, consulting the follow
// graph only when the trip is follower-scoped with an open share list.
func (s *Service) CheckAccess(ctx context.Context, tripID, userID string) (bool, error) {
	trip, err := s.store.FindByID(ctx, tripID)
	if err != nil {
		return false, err
	}
	if CanView(trip, userID, nil) {
		return true, nil
	}
	if trip.IsPublic == models.VisibilityFollower && len(trip.SharedWithUsers) == 0 {
		following, err := s.follows.FollowingIDs(ctx, userID)
		if err != nil {
			log.Printf("follow lookup for %s: %v", userID, err)
			return false, nil
		}
		return CanView(trip, userID, following), nil
	}
	return false, nil
}

// CreatePlan gates on trip membership, then persists the typed plan.
func (s *Service) CreatePlan(ctx context.Context, requesterID string, plan models.Plan) (models.Plan, error) {
	trip, err := s.store.FindByID(ctx, plan.TripID)
	if err != nil {
		return models.Plan{}, err
	}
	if !IsMember(trip, requesterID) {
		return models.Plan{}, errs.Forbidden("not a member of trip " + plan.TripID)
	}
	saved, err := s.plans.Save(ctx, plan)
	if err != nil {
		return models.Plan{}, err
	}
	s.emit(ctx, "plan-created", saved.ID, requesterID)
	return saved, nil
}

func (s *Service) GetPlan(ctx context.Context, planID string) (models.Plan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return models.Plan{}, err
	}
	s.hydrateComments(ctx, plan.Comments)
	return plan, nil
}

func (s *Service) GetPlansByTrip(ctx context.Context, tripID string) ([]models.Plan, error) {
	return s.plans.FindByTripID(ctx, tripID)
}

// UpdatePlan replaces the common fields; the variant payload travels with the
// request unchanged. Likes and comments are preserved by the store's merge
// semantics.
func (s *Service) UpdatePlan(ctx context.Context, requesterID, planID string, in models.Plan) (models.Plan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return models.Plan{}, err
	}
	trip, err := s.store.FindByID(ctx, plan.TripID)
	if err != nil {
		return models.Plan{}, err
	}
	if !IsMember(trip, requesterID) {
		return models.Plan{}, errs.Forbidden("not a member of trip " + plan.TripID)
	}

	in.ID = plan.ID
	in.TripID = plan.TripID
	in.CreatedAt = plan.CreatedAt
	saved, err := s.plans.Save(ctx, in)
	if err != nil {
		return models.Plan{}, err
	}
	s.emit(ctx, "plan-updated", saved.ID, requesterID)
	return saved, nil
}

func (s *Service) DeletePlan(ctx context.Context, requesterID, planID string) error {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return err
	}
	trip, err := s.store.FindByID(ctx, plan.TripID)
	if err != nil {
		return err
	}
	if !IsMember(trip, requesterID) {
		return errs.Forbidden("not a member of trip " + plan.TripID)
	}
	if err := s.plans.DeleteByID(ctx, planID); err != nil {
		return err
	}
	s.emit(ctx, "plan-deleted", planID, requesterID)
	return nil
}

func (s *Service) emit(ctx context.Context, event, entityID, userID string) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, event, mq.Index{EntityType: "trip", EntityId: entityID, ItemId: userID})
}
