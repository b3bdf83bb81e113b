package models

import "time"

// PlanType is the closed discriminator stored on every plan document.
type PlanType string

const (
	PlanFlight     PlanType = "FLIGHT"
	PlanRestaurant PlanType = "RESTAURANT"
	PlanLodging    PlanType = "LODGING"
	PlanActivity   PlanType = "ACTIVITY"
	PlanTour       PlanType = "TOUR"
	PlanTheater    PlanType = "THEATER"
	PlanShopping   PlanType = "SHOPPING"
	PlanCamping    PlanType = "CAMPING"
	PlanReligion   PlanType = "RELIGION"
	PlanBoat       PlanType = "BOAT"
	PlanCarRental  PlanType = "CAR_RENTAL"
	PlanTrain      PlanType = "TRAIN"
)

// Plan is one itinerary item. Exactly one of the detail pointers is non-nil,
// selected by Type; an unknown or empty Type means a bare plan with no
// details. TOUR/THEATER/SHOPPING/CAMPING/RELIGION share the activity shape,
// TRAIN shares the car-rental shape.
type Plan struct {
	ID        string        `json:"id"`
	TripID    string        `json:"tripId"`
	Title     string        `json:"title"`
	Address   string        `json:"address,omitempty"`
	Location  string        `json:"location,omitempty"`
	StartTime *time.Time    `json:"startTime,omitempty"`
	Expense   *float64      `json:"expense,omitempty"`
	PhotoURL  string        `json:"photoUrl,omitempty"`
	Photos    []string      `json:"photos"`
	Type      PlanType      `json:"type,omitempty"`
	Likes     []PlanLike    `json:"likes"`
	Comments  []PlanComment `json:"comments"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`

	Flight     *FlightDetails     `json:"flight,omitempty"`
	Restaurant *RestaurantDetails `json:"restaurant,omitempty"`
	Lodging    *LodgingDetails    `json:"lodging,omitempty"`
	Activity   *ActivityDetails   `json:"activity,omitempty"`
	Boat       *BoatDetails       `json:"boat,omitempty"`
	CarRental  *CarRentalDetails  `json:"carRental,omitempty"`
}

type FlightDetails struct {
	ArrivalLocation string     `json:"arrivalLocation,omitempty"`
	ArrivalAddress  string     `json:"arrivalAddress,omitempty"`
	ArrivalDate     *time.Time `json:"arrivalDate,omitempty"`
}

type RestaurantDetails struct {
	ReservationDate *time.Time `json:"reservationDate,omitempty"`
	ReservationTime *time.Time `json:"reservationTime,omitempty"`
}

type LodgingDetails struct {
	CheckInDate  *time.Time `json:"checkInDate,omitempty"`
	CheckOutDate *time.Time `json:"checkOutDate,omitempty"`
	Phone        string     `json:"phone,omitempty"`
}

type ActivityDetails struct {
	EndTime *time.Time `json:"endTime,omitempty"`
}

type BoatDetails struct {
	ArrivalTime     *time.Time `json:"arrivalTime,omitempty"`
	ArrivalLocation string     `json:"arrivalLocation,omitempty"`
	ArrivalAddress  string     `json:"arrivalAddress,omitempty"`
}

type CarRentalDetails struct {
	PickupDate *time.Time `json:"pickupDate,omitempty"`
	PickupTime *time.Time `json:"pickupTime,omitempty"`
	Phone      string     `json:"phone,omitempty"`
}

type PlanLike struct {
	UserID    string     `json:"userId" bson:"userId"`
	CreatedAt *time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

// PlanComment supports one level of threading: ParentID references another
// comment on the same plan. UserName and UserAvatar are hydrated on read from
// the user directory, never persisted.
type PlanComment struct {
	ID         string     `json:"id" bson:"id"`
	UserID     string     `json:"userId" bson:"userId"`
	UserName   string     `json:"userName,omitempty" bson:"-"`
	UserAvatar string     `json:"userAvatar,omitempty" bson:"-"`
	ParentID   string     `json:"parentId,omitempty" bson:"parentId,omitempty"`
	Content    string     `json:"content" bson:"content"`
	CreatedAt  *time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}
