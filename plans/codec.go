package plans

import (
	"time"

	"voyago/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeLayout is the on-disk date-time form, written without a zone. Historical
// documents may instead carry a native Mongo datetime for any of these fields,
// so every decode path accepts both.
const TimeLayout = "2006-01-02T15:04:05"

// Encode flattens a plan into the schemaless document stored in the plans
// collection: common fields plus the one variant field set selected by Type.
func Encode(p models.Plan) bson.M {
	doc := bson.M{
		"tripId":   p.TripID,
		"title":    p.Title,
		"address":  p.Address,
		"location": p.Location,
		"expense":  p.Expense,
		"photoUrl": p.PhotoURL,
		"photos":   photosOrEmpty(p.Photos),
	}
	if p.StartTime != nil {
		doc["startTime"] = p.StartTime.Format(TimeLayout)
	}
	if p.Type != "" {
		doc["type"] = string(p.Type)
	}
	if p.CreatedAt != nil {
		doc["createdAt"] = p.CreatedAt.Format(TimeLayout)
	}
	if len(p.Likes) > 0 {
		likes := make([]bson.M, 0, len(p.Likes))
		for _, l := range p.Likes {
			m := bson.M{"userId": l.UserID}
			if l.CreatedAt != nil {
				m["createdAt"] = *l.CreatedAt
			}
			likes = append(likes, m)
		}
		doc["likes"] = likes
	}
	if len(p.Comments) > 0 {
		comments := make([]bson.M, 0, len(p.Comments))
		for _, c := range p.Comments {
			m := bson.M{
				"id":      c.ID,
				"userId":  c.UserID,
				"content": c.Content,
			}
			if c.ParentID != "" {
				m["parentId"] = c.ParentID
			}
			if c.CreatedAt != nil {
				m["createdAt"] = *c.CreatedAt
			}
			comments = append(comments, m)
		}
		doc["comments"] = comments
	}

	switch Variant(p.Type) {
	case models.PlanFlight:
		if f := p.Flight; f != nil {
			doc["arrivalLocation"] = f.ArrivalLocation
			doc["arrivalAddress"] = f.ArrivalAddress
			putTime(doc, "arrivalDate", f.ArrivalDate)
		}
	case models.PlanRestaurant:
		if r := p.Restaurant; r != nil {
			putTime(doc, "reservationDate", r.ReservationDate)
			putTime(doc, "reservationTime", r.ReservationTime)
		}
	case models.PlanLodging:
		if l := p.Lodging; l != nil {
			putTime(doc, "checkInDate", l.CheckInDate)
			putTime(doc, "checkOutDate", l.CheckOutDate)
			doc["phone"] = l.Phone
		}
	case models.PlanActivity:
		if a := p.Activity; a != nil {
			putTime(doc, "endTime", a.EndTime)
		}
	case models.PlanBoat:
		if b := p.Boat; b != nil {
			putTime(doc, "arrivalTime", b.ArrivalTime)
			doc["arrivalLocation"] = b.ArrivalLocation
			doc["arrivalAddress"] = b.ArrivalAddress
		}
	case models.PlanCarRental:
		if c := p.CarRental; c != nil {
			putTime(doc, "pickupDate", c.PickupDate)
			putTime(doc, "pickupTime", c.PickupTime)
			doc["phone"] = c.Phone
		}
	}

	return doc
}

// Decode rebuilds a plan from a stored document. The type discriminator picks
// the variant; missing or malformed optional fields are left empty, never an
// error. An unrecognized type yields a bare plan that still round-trips its
// common fields.
func Decode(id string, doc bson.M) models.Plan {
	t := models.PlanType(str(doc["type"]))
	p := models.Plan{
		ID:        id,
		TripID:    str(doc["tripId"]),
		Title:     str(doc["title"]),
		Address:   str(doc["address"]),
		Location:  str(doc["location"]),
		StartTime: ParseTime(doc["startTime"]),
		Expense:   parseFloat(doc["expense"]),
		PhotoURL:  str(doc["photoUrl"]),
		Photos:    parsePhotos(doc["photos"]),
		Type:      t,
		Likes:     parseLikes(doc["likes"]),
		Comments:  parseComments(doc["comments"]),
		CreatedAt: ParseTime(doc["createdAt"]),
	}

	switch Variant(t) {
	case models.PlanFlight:
		p.Flight = &models.FlightDetails{
			ArrivalLocation: str(doc["arrivalLocation"]),
			ArrivalAddress:  str(doc["arrivalAddress"]),
			ArrivalDate:     ParseTime(doc["arrivalDate"]),
		}
	case models.PlanRestaurant:
		p.Restaurant = &models.RestaurantDetails{
			ReservationDate: ParseTime(doc["reservationDate"]),
			ReservationTime: ParseTime(doc["reservationTime"]),
		}
	case models.PlanLodging:
		p.Lodging = &models.LodgingDetails{
			CheckInDate:  ParseTime(doc["checkInDate"]),
			CheckOutDate: ParseTime(doc["checkOutDate"]),
			Phone:        str(doc["phone"]),
		}
	case models.PlanActivity:
		p.Activity = &models.ActivityDetails{
			EndTime: ParseTime(doc["endTime"]),
		}
	case models.PlanBoat:
		p.Boat = &models.BoatDetails{
			ArrivalTime:     ParseTime(doc["arrivalTime"]),
			ArrivalLocation: str(doc["arrivalLocation"]),
			ArrivalAddress:  str(doc["arrivalAddress"]),
		}
	case models.PlanCarRental:
		p.CarRental = &models.CarRentalDetails{
			PickupDate: ParseTime(doc["pickupDate"]),
			PickupTime: ParseTime(doc["pickupTime"]),
			Phone:      str(doc["phone"]),
		}
	}

	return p
}

// Variant maps the full discriminator set onto the six payload shapes:
// TOUR/THEATER/SHOPPING/CAMPING/RELIGION store activity fields, TRAIN stores
// car-rental fields. Anything else maps to the empty variant.
func Variant(t models.PlanType) models.PlanType {
	switch t {
	case models.PlanFlight, models.PlanRestaurant, models.PlanLodging,
		models.PlanBoat, models.PlanCarRental, models.PlanActivity:
		return t
	case models.PlanTour, models.PlanTheater, models.PlanShopping,
		models.PlanCamping, models.PlanReligion:
		return models.PlanActivity
	case models.PlanTrain:
		return models.PlanCarRental
	}
	return ""
}

func putTime(doc bson.M, key string, t *time.Time) {
	if t != nil {
		doc[key] = t.Format(TimeLayout)
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// ParseTime accepts the fixed string layout or a native datetime; anything
// else decodes to nil.
func ParseTime(v any) *time.Time {
	switch val := v.(type) {
	case string:
		t, err := time.Parse(TimeLayout, val)
		if err != nil {
			return nil
		}
		return &t
	case primitive.DateTime:
		t := val.Time()
		return &t
	case time.Time:
		return &val
	}
	return nil
}

func parseFloat(v any) *float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	default:
		return nil
	}
	return &f
}

func photosOrEmpty(photos []string) []string {
	if photos == nil {
		return []string{}
	}
	return photos
}

func parsePhotos(v any) []string {
	photos := []string{}
	for _, item := range asSlice(v) {
		if s, ok := item.(string); ok {
			photos = append(photos, s)
		}
	}
	return photos
}

func parseLikes(v any) []models.PlanLike {
	likes := []models.PlanLike{}
	for _, item := range asSlice(v) {
		m, ok := asDoc(item)
		if !ok {
			continue
		}
		likes = append(likes, models.PlanLike{
			UserID:    str(m["userId"]),
			CreatedAt: ParseTime(m["createdAt"]),
		})
	}
	return likes
}

func parseComments(v any) []models.PlanComment {
	comments := []models.PlanComment{}
	for _, item := range asSlice(v) {
		m, ok := asDoc(item)
		if !ok {
			continue
		}
		comments = append(comments, models.PlanComment{
			ID:        str(m["id"]),
			UserID:    str(m["userId"]),
			ParentID:  str(m["parentId"]),
			Content:   str(m["content"]),
			CreatedAt: ParseTime(m["createdAt"]),
		})
	}
	return comments
}

func asSlice(v any) []any {
	switch val := v.(type) {
	case primitive.A:
		return val
	case []any:
		return val
	case []bson.M:
		out := make([]any, len(val))
		for i, m := range val {
			out[i] = m
		}
		return out
	}
	return nil
}

func asDoc(v any) (bson.M, bool) {
	switch val := v.(type) {
	case bson.M:
		return val, true
	case map[string]any:
		return val, true
	}
	return nil, false
}
