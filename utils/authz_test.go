package utils

import (
	"testing"

	"rentora-server/models"

	"github.com/stretchr/testify/assert"
)

func TestCanBooking(t *testing.T) {
	booking := &models.Booking{GuestID: 2, HostID: 1}

	guest := Actor{ID: 2, Role: models.RoleUser}
	host := Actor{ID: 1, Role: models.RoleHost}
	stranger := Actor{ID: 9, Role: models.RoleUser}
	admin := Actor{ID: 99, Role: models.RoleAdmin}

	assert.True(t, Can(guest, ActionView, booking))
	assert.True(t, Can(host, ActionView, booking))
	assert.False(t, Can(stranger, ActionView, booking))

	assert.True(t, Can(guest, ActionCancel, booking))
	assert.True(t, Can(host, ActionCancel, booking))

	assert.False(t, Can(guest, ActionConfirm, booking))
	assert.True(t, Can(host, ActionConfirm, booking))
	assert.True(t, Can(host, ActionCheckIn, booking))
	assert.True(t, Can(host, ActionCheckOut, booking))
	assert.False(t, Can(guest, ActionCheckOut, booking))

	// Refunds stay with the back office.
	assert.False(t, Can(guest, ActionRefund, booking))
	assert.False(t, Can(host, ActionRefund, booking))
	assert.True(t, Can(admin, ActionRefund, booking))
}

func TestCanProperty(t *testing.T) {
	property := &models.Property{OwnerID: 1}

	owner := Actor{ID: 1, Role: models.RoleHost}
	other := Actor{ID: 2, Role: models.RoleHost}
	admin := Actor{ID: 99, Role: models.RoleSuperAdmin}

	assert.True(t, Can(other, ActionView, property))
	assert.True(t, Can(owner, ActionUpdate, property))
	assert.False(t, Can(other, ActionUpdate, property))
	assert.False(t, Can(other, ActionDelete, property))
	assert.True(t, Can(admin, ActionDelete, property))
}

func TestCanReview(t *testing.T) {
	review := &models.Review{ReviewerID: 2}

	reviewer := Actor{ID: 2, Role: models.RoleUser}
	other := Actor{ID: 3, Role: models.RoleUser}
	admin := Actor{ID: 99, Role: models.RoleAdmin}

	assert.True(t, Can(reviewer, ActionUpdate, review))
	assert.False(t, Can(other, ActionUpdate, review))
	assert.True(t, Can(reviewer, ActionDelete, review))
	assert.False(t, Can(other, ActionDelete, review))
	assert.True(t, Can(admin, ActionDelete, review))
}

func TestCanMarketplaceItem(t *testing.T) {
	item := &models.MarketplaceItem{SellerID: 5}

	seller := Actor{ID: 5, Role: models.RoleUser}
	other := Actor{ID: 6, Role: models.RoleUser}

	assert.True(t, Can(seller, ActionUpdate, item))
	assert.True(t, Can(seller, ActionDelete, item))
	assert.False(t, Can(other, ActionUpdate, item))
}

func TestActorRoleHelpers(t *testing.T) {
	assert.True(t, Actor{Role: models.RoleAdmin}.Admin())
	assert.True(t, Actor{Role: models.RoleSuperAdmin}.Admin())
	assert.True(t, Actor{Role: models.RoleSuperAdmin}.SuperAdmin())
	assert.False(t, Actor{Role: models.RoleAdmin}.SuperAdmin())
	assert.False(t, Actor{Role: models.RoleHost}.Admin())
}
