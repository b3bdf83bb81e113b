package profile

import (
	"context"

	"voyago/errs"
	"voyago/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FollowStore keeps one followings document per user: the ids they follow and
// the ids following them, maintained as a pair on every follow/unfollow.
type FollowStore struct {
	coll *mongo.Collection
}

func NewFollowStore(coll *mongo.Collection) *FollowStore {
	return &FollowStore{coll: coll}
}

// Follow is idempotent via $addToSet on both sides of the relationship.
func (s *FollowStore) Follow(ctx context.Context, userID, targetID string) error {
	return s.update(ctx, userID, targetID, "$addToSet")
}

func (s *FollowStore) Unfollow(ctx context.Context, userID, targetID string) error {
	return s.update(ctx, userID, targetID, "$pull")
}

func (s *FollowStore) update(ctx context.Context, userID, targetID, op string) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{op: bson.M{"follows": targetID}},
		opts,
	)
	if err != nil {
		return errs.Store("update follows", err)
	}
	_, err = s.coll.UpdateOne(ctx,
		bson.M{"userid": targetID},
		bson.M{op: bson.M{"followers": userID}},
		opts,
	)
	if err != nil {
		return errs.Store("update followers", err)
	}
	return nil
}

// FollowingIDs returns the ids the user follows; a user with no followings
// document follows nobody.
func (s *FollowStore) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	follow, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return follow.Follows, nil
}

func (s *FollowStore) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	follow, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return follow.Followers, nil
}

func (s *FollowStore) IsFollowing(ctx context.Context, userID, targetID string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{
		"userid":  userID,
		"follows": bson.M{"$in": []string{targetID}},
	})
	if err != nil {
		return false, errs.Store("count follows", err)
	}
	return count > 0, nil
}

func (s *FollowStore) get(ctx context.Context, userID string) (models.UserFollow, error) {
	var follow models.UserFollow
	err := s.coll.FindOne(ctx, bson.M{"userid": userID}).Decode(&follow)
	if err == mongo.ErrNoDocuments {
		return models.UserFollow{UserID: userID, Follows: []string{}, Followers: []string{}}, nil
	}
	if err != nil {
		return models.UserFollow{}, errs.Store("find follows", err)
	}
	if follow.Follows == nil {
		follow.Follows = []string{}
	}
	if follow.Followers == nil {
		follow.Followers = []string{}
	}
	return follow, nil
}

// Directory reads user summaries from the users collection for embedding in
// trips and for comment hydration.
type Directory struct {
	coll *mongo.Collection
}

func NewDirectory(coll *mongo.Collection) *Directory {
	return &Directory{coll: coll}
}

type userDoc struct {
	ID             string `bson:"_id"`
	FirstName      string `bson:"firstName,omitempty"`
	LastName       string `bson:"lastName,omitempty"`
	Email          string `bson:"email,omitempty"`
	ProfilePicture string `bson:"profilePicture,omitempty"`
	Role           string `bson:"role,omitempty"`
	Enabled        bool   `bson:"enabled"`
}

func (d userDoc) summary() models.UserSummary {
	return models.UserSummary{
		ID:             d.ID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		ProfilePicture: d.ProfilePicture,
		Role:           d.Role,
		Enabled:        d.Enabled,
	}
}

func (d *Directory) Lookup(ctx context.Context, userID string) (models.UserSummary, error) {
	var doc userDoc
	err := d.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return models.UserSummary{}, errs.NotFound("user", userID)
	}
	if err != nil {
		return models.UserSummary{}, errs.Store("find user", err)
	}
	return doc.summary(), nil
}

func (d *Directory) LookupMany(ctx context.Context, userIDs []string) ([]models.UserSummary, error) {
	if len(userIDs) == 0 {
		return []models.UserSummary{}, nil
	}
	cursor, err := d.coll.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, errs.Store("find users", err)
	}
	defer cursor.Close(ctx)

	users := []models.UserSummary{}
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		users = append(users, doc.summary())
	}
	if err := cursor.Err(); err != nil {
		return nil, errs.Store("iterate users", err)
	}
	return users, nil
}
