package trips

import (
	"context"
	"time"

	"voyago/errs"
	"voyago/models"
	"voyago/plans"
	"voyago/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists trip documents. Member and sharedWithUsers summaries are
// embedded whole and rewritten on every save; concurrent edits to the same
// trip resolve last-write-wins with no conflict detection.
type Store struct {
	coll *mongo.Collection
}

func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

type tripDoc struct {
	ID              string               `bson:"_id"`
	UserID          string               `bson:"userId"`
	Title           string               `bson:"title"`
	StartDate       string               `bson:"startDate"`
	EndDate         string               `bson:"endDate"`
	IsPublic        string               `bson:"isPublic"`
	CoverPhoto      string               `bson:"coverPhoto,omitempty"`
	Content         string               `bson:"content,omitempty"`
	Tags            string               `bson:"tags,omitempty"`
	Members         []models.UserSummary `bson:"members"`
	SharedWithUsers []models.UserSummary `bson:"sharedWithUsers"`
	CreatedAt       any                  `bson:"createdAt,omitempty"`
	SharedAt        any                  `bson:"sharedAt,omitempty"`
}

func encodeTrip(t models.Trip) tripDoc {
	doc := tripDoc{
		ID:              t.ID,
		UserID:          t.UserID,
		Title:           t.Title,
		StartDate:       t.StartDate,
		EndDate:         t.EndDate,
		IsPublic:        t.IsPublic,
		CoverPhoto:      t.CoverPhoto,
		Content:         t.Content,
		Tags:            t.Tags,
		Members:         membersOrEmpty(t.Members),
		SharedWithUsers: membersOrEmpty(t.SharedWithUsers),
	}
	if doc.IsPublic == "" {
		doc.IsPublic = models.VisibilityNone
	}
	if t.CreatedAt != nil {
		doc.CreatedAt = t.CreatedAt.Format(plans.TimeLayout)
	}
	if t.SharedAt != nil {
		doc.SharedAt = t.SharedAt.Format(plans.TimeLayout)
	}
	return doc
}

func decodeTrip(doc tripDoc) models.Trip {
	return models.Trip{
		ID:              doc.ID,
		UserID:          doc.UserID,
		Title:           doc.Title,
		StartDate:       doc.StartDate,
		EndDate:         doc.EndDate,
		IsPublic:        doc.IsPublic,
		CoverPhoto:      doc.CoverPhoto,
		Content:         doc.Content,
		Tags:            doc.Tags,
		Members:         membersOrEmpty(doc.Members),
		SharedWithUsers: membersOrEmpty(doc.SharedWithUsers),
		CreatedAt:       plans.ParseTime(doc.CreatedAt),
		SharedAt:        plans.ParseTime(doc.SharedAt),
	}
}

func membersOrEmpty(members []models.UserSummary) []models.UserSummary {
	if members == nil {
		return []models.UserSummary{}
	}
	return members
}

// Save assigns an id and createdAt when absent and overwrites the whole
// document.
func (s *Store) Save(ctx context.Context, trip models.Trip) (models.Trip, error) {
	if trip.ID == "" {
		trip.ID = utils.GenerateRandomString(13)
	}
	if trip.CreatedAt == nil {
		now := time.Now()
		trip.CreatedAt = &now
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": trip.ID}, encodeTrip(trip), opts); err != nil {
		return models.Trip{}, errs.Store("save trip", err)
	}
	return trip, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (models.Trip, error) {
	var doc tripDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return models.Trip{}, errs.NotFound("trip", id)
	}
	if err != nil {
		return models.Trip{}, errs.Store("find trip", err)
	}
	return decodeTrip(doc), nil
}

// FindByUserID returns trips owned by the user.
func (s *Store) FindByUserID(ctx context.Context, userID string) ([]models.Trip, error) {
	return s.find(ctx, bson.M{"userId": userID}, nil)
}

// FindTripsByMemberID returns trips where the user appears in members but is
// not the owner; ownership and membership are disjoint result sets.
func (s *Store) FindTripsByMemberID(ctx context.Context, userID string) ([]models.Trip, error) {
	filter := bson.M{
		"members.id": userID,
		"userId":     bson.M{"$ne": userID},
	}
	return s.find(ctx, filter, nil)
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errs.Store("delete trip", err)
	}
	return nil
}

// FindActiveTrips returns trips whose date range contains today
// (yyyy-MM-dd), across all owners.
func (s *Store) FindActiveTrips(ctx context.Context, today string) ([]models.Trip, error) {
	filter := bson.M{
		"startDate": bson.M{"$lte": today},
		"endDate":   bson.M{"$gte": today},
	}
	return s.find(ctx, filter, nil)
}

// FindUpcomingTrips returns trips starting strictly after today, earliest
// first; ties break deterministically by id.
func (s *Store) FindUpcomingTrips(ctx context.Context, today string) ([]models.Trip, error) {
	filter := bson.M{"startDate": bson.M{"$gt": today}}
	return s.find(ctx, filter, upcomingSort())
}

// FindActiveTripsForUser scopes the active window to trips the user owns or
// is a member of.
func (s *Store) FindActiveTripsForUser(ctx context.Context, userID, today string) ([]models.Trip, error) {
	filter := bson.M{
		"startDate": bson.M{"$lte": today},
		"endDate":   bson.M{"$gte": today},
		"$or":       ownerOrMember(userID),
	}
	return s.find(ctx, filter, nil)
}

func (s *Store) FindUpcomingTripsForUser(ctx context.Context, userID, today string) ([]models.Trip, error) {
	filter := bson.M{
		"startDate": bson.M{"$gt": today},
		"$or":       ownerOrMember(userID),
	}
	return s.find(ctx, filter, upcomingSort())
}

func ownerOrMember(userID string) []bson.M {
	return []bson.M{
		{"userId": userID},
		{"members.id": userID},
	}
}

func upcomingSort() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Trip, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.coll.Find(ctx, filter, opts)
	} else {
		cursor, err = s.coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, errs.Store("find trips", err)
	}
	defer cursor.Close(ctx)

	result := []models.Trip{}
	for cursor.Next(ctx) {
		var doc tripDoc
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		result = append(result, decodeTrip(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, errs.Store("iterate trips", err)
	}
	return result, nil
}
