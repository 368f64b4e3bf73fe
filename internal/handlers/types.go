package handlers

import (
	"time"

	"github.com/serroba/user-lookup-go/internal/lookup"
)

// UserInfoRequest is the request for looking up a user by id.
type UserInfoRequest struct {
	ID string `doc:"The user object id" example:"5c9a3e1f2b6f4a0012345678" path:"id"`
}

// UserVideosRequest is the request for looking up a user's videos by phone.
type UserVideosRequest struct {
	Phone string `doc:"The user phone number" example:"+15551234567" path:"phone"`
}

// RecordResponse carries a flattened user record.
type RecordResponse struct {
	Body lookup.Record
}

// RemoveUserRequest is the request for removing a user by phone.
type RemoveUserRequest struct {
	Phone string `doc:"The phone number scheduled for deletion" example:"+15551234567" path:"phone"`
}

// RemoveUserResponse acknowledges an accepted removal.
type RemoveUserResponse struct {
	Status int
	Body   struct {
		RequestID   string    `doc:"Identifier of the removal request" json:"requestId"`
		Phone       string    `doc:"The phone number being removed"     json:"phone"`
		RequestedAt time.Time `doc:"When the removal was accepted"      json:"requestedAt"`
	}
}
