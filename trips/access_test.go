package trips

import (
	"testing"

	"voyago/models"

	"github.com/stretchr/testify/assert"
)

func tripWith(owner, visibility string, members, shared []string) models.Trip {
	t := models.Trip{UserID: owner, IsPublic: visibility}
	for _, id := range members {
		t.Members = append(t.Members, models.UserSummary{ID: id})
	}
	for _, id := range shared {
		t.SharedWithUsers = append(t.SharedWithUsers, models.UserSummary{ID: id})
	}
	return t
}

func TestIsMember(t *testing.T) {
	trip := tripWith("owner", models.VisibilityNone, []string{"m1"}, nil)

	assert.True(t, IsMember(trip, "owner"))
	assert.True(t, IsMember(trip, "m1"))
	assert.False(t, IsMember(trip, "stranger"))
	assert.False(t, IsMember(trip, ""))
}

func TestCanView(t *testing.T) {
	tests := []struct {
		name       string
		trip       models.Trip
		userID     string
		followsIDs []string
		want       bool
	}{
		{
			name:   "owner always views",
			trip:   tripWith("owner", models.VisibilityNone, nil, nil),
			userID: "owner",
			want:   true,
		},
		{
			name:   "member always views",
			trip:   tripWith("owner", models.VisibilityNone, []string{"m1"}, nil),
			userID: "m1",
			want:   true,
		},
		{
			name:   "public open to anyone",
			trip:   tripWith("owner", models.VisibilityPublic, nil, nil),
			userID: "stranger",
			want:   true,
		},
		{
			name:   "public open to anonymous",
			trip:   tripWith("owner", models.VisibilityPublic, nil, nil),
			userID: "",
			want:   true,
		},
		{
			name:   "none denies non-member",
			trip:   tripWith("owner", models.VisibilityNone, nil, nil),
			userID: "stranger",
			want:   false,
		},
		{
			name:   "follower with shared list allows listed user",
			trip:   tripWith("owner", models.VisibilityFollower, nil, []string{"friend"}),
			userID: "friend",
			want:   true,
		},
		{
			name:       "follower with shared list denies unlisted follower",
			trip:       tripWith("owner", models.VisibilityFollower, nil, []string{"friend"}),
			userID:     "fan",
			followsIDs: []string{"owner"},
			want:       false,
		},
		{
			name:       "follower with empty list allows a follower of the owner",
			trip:       tripWith("owner", models.VisibilityFollower, nil, nil),
			userID:     "fan",
			followsIDs: []string{"other", "owner"},
			want:       true,
		},
		{
			name:       "follower with empty list denies non-follower",
			trip:       tripWith("owner", models.VisibilityFollower, nil, nil),
			userID:     "stranger",
			followsIDs: []string{"other"},
			want:       false,
		},
		{
			name:   "unknown visibility denies",
			trip:   tripWith("owner", "friends", nil, nil),
			userID: "stranger",
			want:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanView(tc.trip, tc.userID, tc.followsIDs))
		})
	}
}
