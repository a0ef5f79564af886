package utils

import (
	"rentora-server/models"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// Action names a capability an actor may hold on a resource. Every route goes
// through Can instead of testing role arrays inline, so guest/host/admin rules
// live in one place.
type Action string

const (
	ActionView     Action = "view"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionCheckIn  Action = "check_in"
	ActionCheckOut Action = "check_out"
	ActionRefund   Action = "refund"
)

// Actor is the authenticated principal taken from the access token.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) Admin() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleSuperAdmin
}

func (a Actor) SuperAdmin() bool { return a.Role == models.RoleSuperAdmin }

// ActorFromContext extracts the actor from the verified access token.
func ActorFromContext(ctx iris.Context) Actor {
	claims := jwt.Get(ctx).(*AccessToken)
	return Actor{ID: claims.ID, Role: claims.Role}
}

// Can decides whether the actor may perform action on the resource. Admins may
// do anything except the super-admin-only refund and role management handled
// by their route guards.
func Can(actor Actor, action Action, resource interface{}) bool {
	if actor.Admin() {
		return true
	}

	switch res := resource.(type) {
	case *models.Booking:
		switch action {
		case ActionView, ActionCancel:
			return res.GuestID == actor.ID || res.HostID == actor.ID
		case ActionConfirm, ActionCheckIn, ActionCheckOut:
			return res.HostID == actor.ID
		case ActionRefund:
			return false
		}
	case *models.Property:
		switch action {
		case ActionView:
			return true
		case ActionUpdate, ActionDelete:
			return res.OwnerID == actor.ID
		}
	case *models.Review:
		switch action {
		case ActionUpdate:
			return res.ReviewerID == actor.ID
		case ActionDelete:
			return res.ReviewerID == actor.ID
		}
	case *models.MarketplaceItem:
		switch action {
		case ActionUpdate, ActionDelete:
			return res.SellerID == actor.ID
		}
	case *models.ServiceBooking:
		switch action {
		case ActionView, ActionCancel:
			return res.UserID == actor.ID
		}
	}
	return false
}
