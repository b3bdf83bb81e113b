package plans

import (
	"context"
	"sort"
	"time"

	"voyago/errs"
	"voyago/models"
	"voyago/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists plan documents. Writes are merge-upserts: fields absent from
// the incoming plan keep whatever value the stored document already has.
type Store struct {
	coll *mongo.Collection
}

func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// Save assigns an id and createdAt when absent, then merge-upserts the
// encoded document.
func (s *Store) Save(ctx context.Context, plan models.Plan) (models.Plan, error) {
	if plan.ID == "" {
		plan.ID = utils.GenerateRandomString(13)
	}
	if plan.CreatedAt == nil {
		now := time.Now()
		plan.CreatedAt = &now
	}

	doc := Encode(plan)
	opts := options.Update().SetUpsert(true)
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": plan.ID}, bson.M{"$set": doc}, opts); err != nil {
		return models.Plan{}, errs.Store("save plan", err)
	}
	return plan, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (models.Plan, error) {
	var doc bson.M
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return models.Plan{}, errs.NotFound("plan", id)
	}
	if err != nil {
		return models.Plan{}, errs.Store("find plan", err)
	}
	return Decode(id, doc), nil
}

// FindByTripID returns the trip's plans sorted ascending by start time, plans
// without a start time last, preserving store order among equals.
func (s *Store) FindByTripID(ctx context.Context, tripID string) ([]models.Plan, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"tripId": tripID})
	if err != nil {
		return nil, errs.Store("find plans by trip", err)
	}
	defer cursor.Close(ctx)

	result := []models.Plan{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		id, _ := doc["_id"].(string)
		result = append(result, Decode(id, doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, errs.Store("iterate plans", err)
	}

	SortByStartTime(result)
	return result, nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errs.Store("delete plan", err)
	}
	return nil
}

func (s *Store) DeleteByTripID(ctx context.Context, tripID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"tripId": tripID}); err != nil {
		return errs.Store("delete plans by trip", err)
	}
	return nil
}

// SortByStartTime orders plans ascending by StartTime with nil start times
// sorted last; the sort is stable.
func SortByStartTime(plans []models.Plan) {
	sort.SliceStable(plans, func(i, j int) bool {
		a, b := plans[i].StartTime, plans[j].StartTime
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
}
