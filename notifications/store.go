package notifications

import (
	"context"
	"time"

	"voyago/errs"
	"voyago/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeviceStore keeps one user_device document per user.
type DeviceStore struct {
	coll *mongo.Collection
}

func NewDeviceStore(coll *mongo.Collection) *DeviceStore {
	return &DeviceStore{coll: coll}
}

// SaveToken merge-upserts the FCM token. A first registration enables
// notifications by default; an existing opt-out is never flipped back on.
func (s *DeviceStore) SaveToken(ctx context.Context, userID, token string) error {
	update := bson.M{
		"$set": bson.M{
			"fcmToken":    token,
			"lastUpdated": time.Now().UnixMilli(),
		},
		"$setOnInsert": bson.M{"notificationsEnabled": true},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.coll.UpdateOne(ctx, bson.M{"userId": userID}, update, opts); err != nil {
		return errs.Store("save device token", err)
	}
	return nil
}

func (s *DeviceStore) SetEnabled(ctx context.Context, userID string, enabled bool) error {
	update := bson.M{
		"$set": bson.M{
			"notificationsEnabled": enabled,
			"lastUpdated":          time.Now().UnixMilli(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.coll.UpdateOne(ctx, bson.M{"userId": userID}, update, opts); err != nil {
		return errs.Store("update notification settings", err)
	}
	return nil
}

func (s *DeviceStore) Get(ctx context.Context, userID string) (models.UserDevice, error) {
	var device models.UserDevice
	err := s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&device)
	if err == mongo.ErrNoDocuments {
		return models.UserDevice{}, errs.NotFound("device", userID)
	}
	if err != nil {
		return models.UserDevice{}, errs.Store("find device", err)
	}
	return device, nil
}

// CreateDefault records a device with no token and notifications enabled, the
// state for a user the reminder sweep saw before any app registration.
func (s *DeviceStore) CreateDefault(ctx context.Context, userID string) error {
	device := models.UserDevice{
		UserID:               userID,
		NotificationsEnabled: true,
		LastUpdated:          time.Now().UnixMilli(),
	}
	if _, err := s.coll.InsertOne(ctx, device); err != nil {
		return errs.Store("create default device", err)
	}
	return nil
}

// ListAll returns every registered device; the reminder sweep iterates this.
func (s *DeviceStore) ListAll(ctx context.Context) ([]models.UserDevice, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errs.Store("list devices", err)
	}
	defer cursor.Close(ctx)

	devices := []models.UserDevice{}
	for cursor.Next(ctx) {
		var device models.UserDevice
		if err := cursor.Decode(&device); err != nil {
			continue
		}
		devices = append(devices, device)
	}
	if err := cursor.Err(); err != nil {
		return nil, errs.Store("iterate devices", err)
	}
	return devices, nil
}

// InboxStore persists in-app notifications.
type InboxStore struct {
	coll *mongo.Collection
}

func NewInboxStore(coll *mongo.Collection) *InboxStore {
	return &InboxStore{coll: coll}
}

func (s *InboxStore) Save(ctx context.Context, n models.Notification) error {
	if _, err := s.coll.InsertOne(ctx, n); err != nil {
		return errs.Store("save notification", err)
	}
	return nil
}

// ListByUser returns the user's notifications newest first.
func (s *InboxStore) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, errs.Store("list notifications", err)
	}
	defer cursor.Close(ctx)

	result := []models.Notification{}
	for cursor.Next(ctx) {
		var n models.Notification
		if err := cursor.Decode(&n); err != nil {
			continue
		}
		result = append(result, n)
	}
	if err := cursor.Err(); err != nil {
		return nil, errs.Store("iterate notifications", err)
	}
	return result, nil
}

func (s *InboxStore) MarkRead(ctx context.Context, id string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return errs.Store("mark notification read", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("notification", id)
	}
	return nil
}

func (s *InboxStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return errs.Store("delete notification", err)
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("notification", id)
	}
	return nil
}

func (s *InboxStore) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"userId": userID, "isRead": false})
	if err != nil {
		return 0, errs.Store("count unread", err)
	}
	return count, nil
}
