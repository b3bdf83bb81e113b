package trips

import "voyago/models"

// IsMember reports whether the user may edit the trip: the owner or anyone on
// the member list. Visibility plays no part in edit rights.
func IsMember(trip models.Trip, userID string) bool {
	if trip.UserID == userID {
		return true
	}
	for _, m := range trip.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// CanView decides view access. followingIDs is the set of owner ids the
// requester follows.
//
//	owner or member            -> allow
//	public                     -> allow
//	follower + shared list set -> allow iff requester is on the list
//	follower + empty list      -> allow iff requester follows the owner
//	none                       -> deny
func CanView(trip models.Trip, userID string, followingIDs []string) bool {
	if IsMember(trip, userID) {
		return true
	}

	switch trip.IsPublic {
	case models.VisibilityPublic:
		return true
	case models.VisibilityFollower:
		if len(trip.SharedWithUsers) > 0 {
			for _, u := range trip.SharedWithUsers {
				if u.ID == userID {
					return true
				}
			}
			return false
		}
		for _, id := range followingIDs {
			if id == trip.UserID {
				return true
			}
		}
	}
	return false
}
