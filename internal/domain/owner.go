package domain

import "errors"

var ErrInvalidOwner = errors.New("owner must carry exactly one of user id or session id")

// OwnerRef attributes a cart or order to either an authenticated user or
// an anonymous session. Exactly one of the two ids is set.
type OwnerRef struct {
	UserID    string `bson:"user_id,omitempty" json:"user_id,omitempty"`
	SessionID string `bson:"session_id,omitempty" json:"session_id,omitempty"`
}

func UserOwner(userID string) OwnerRef {
	return OwnerRef{UserID: userID}
}

func SessionOwner(sessionID string) OwnerRef {
	return OwnerRef{SessionID: sessionID}
}

func (o OwnerRef) Validate() error {
	if (o.UserID == "") == (o.SessionID == "") {
		return ErrInvalidOwner
	}
	return nil
}

// Key is a stable string form used for cache keys and kafka message keys.
func (o OwnerRef) Key() string {
	if o.UserID != "" {
		return "user:" + o.UserID
	}
	return "session:" + o.SessionID
}
