package routes

import (
	"strings"
	"sync"
	"time"

	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
)

// AdminStats returns back-office headline numbers.
func AdminStats(ctx iris.Context) {
	var totalUsers, totalProperties, pendingProperties int64
	storage.DB.Model(&models.User{}).Count(&totalUsers)
	storage.DB.Model(&models.Property{}).Count(&totalProperties)
	storage.DB.Model(&models.Property{}).
		Where("status = ?", models.PropertyStatusPending).
		Count(&pendingProperties)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newBookings7, newBookings30, newUsers30 int64
	storage.DB.Model(&models.Booking{}).Where("created_at >= ?", since7).Count(&newBookings7)
	storage.DB.Model(&models.Booking{}).Where("created_at >= ?", since30).Count(&newBookings30)
	storage.DB.Model(&models.User{}).Where("created_at >= ?", since30).Count(&newUsers30)

	var openContacts int64
	storage.DB.Model(&models.ContactSubmission{}).Where("is_resolved = ?", false).Count(&openContacts)

	// Revenue only counts money that actually settled.
	var revenue struct {
		Total float64
	}
	storage.DB.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", models.PaymentStatusCompleted).
		Scan(&revenue)

	utils.JSONSuccess(ctx, iris.Map{
		"totalUsers":        totalUsers,
		"totalProperties":   totalProperties,
		"pendingProperties": pendingProperties,
		"newBookings7d":     newBookings7,
		"newBookings30d":    newBookings30,
		"newUsers30d":       newUsers30,
		"openContacts":      openContacts,
		"totalRevenue":      revenue.Total,
	})
}

// AdminActivity lists the most recent bookings and registrations as a simple
// activity feed.
func AdminActivity(ctx iris.Context) {
	var bookings []models.Booking
	storage.DB.Preload("Property").Preload("Guest").
		Order("created_at DESC").Limit(25).
		Find(&bookings)

	var users []models.User
	storage.DB.Select("id, email, first_name, last_name, role, created_at").
		Order("created_at DESC").Limit(25).
		Find(&users)

	utils.JSONSuccess(ctx, iris.Map{
		"recentBookings": bookings,
		"recentUsers":    users,
	})
}

// AdminPendingProperties lists the verification queue, oldest first.
func AdminPendingProperties(ctx iris.Context) {
	var properties []models.Property
	err := storage.DB.Preload("Images").Preload("Owner").
		Where("status = ?", models.PropertyStatusPending).
		Order("created_at ASC").
		Find(&properties).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, properties)
}

// AdminVerifyProperty approves a pending listing and pushes it to the search
// index.
func AdminVerifyProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var property models.Property
	if dbErr := storage.DB.First(&property, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}

	result := storage.DB.Model(&models.Property{}).
		Where("id = ? AND status = ?", id, models.PropertyStatusPending).
		Updates(map[string]interface{}{
			"status":      models.PropertyStatusAvailable,
			"is_verified": true,
		})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidStatus, "Listing is not awaiting verification")
		return
	}

	property.Status = models.PropertyStatusAvailable
	property.IsVerified = true
	jobClient.EnqueueSearchIndex(property.ID, false)
	notifySvc.NotifyPropertyVerified(&property, true, "")

	utils.JSONSuccess(ctx, property)
}

// AdminRejectProperty rejects a pending listing with a reason.
func AdminRejectProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input RejectPropertyInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	var property models.Property
	if dbErr := storage.DB.First(&property, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}

	result := storage.DB.Model(&models.Property{}).
		Where("id = ? AND status = ?", id, models.PropertyStatusPending).
		Update("status", models.PropertyStatusUnavailable)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidStatus, "Listing is not awaiting verification")
		return
	}

	property.Status = models.PropertyStatusUnavailable
	notifySvc.NotifyPropertyVerified(&property, false, input.Reason)

	utils.JSONSuccess(ctx, property)
}

// AdminBookings lists bookings across the platform with filters.
func AdminBookings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 25)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	query := storage.DB.Model(&models.Booking{})
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if propertyID, err := ctx.URLParamInt("propertyId"); err == nil {
		query = query.Where("property_id = ?", propertyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var bookings []models.Booking
	err := query.Preload("Property").Preload("Guest").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&bookings).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, bookings, page, limit, total)
}

// AdminListUsers lists users with role and free-text filters.
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 25)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	query := storage.DB.Model(&models.User{})
	if role := ctx.URLParam("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if q := strings.TrimSpace(ctx.URLParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var users []models.User
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, limit, total)
}

// AdminChangeUserRole changes a user's role. Super admin only; the guard sits
// on the route. SUPER_ADMIN cannot be granted over the API.
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input ChangeRoleInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	var user models.User
	if dbErr := storage.DB.First(&user, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if user.Role == models.RoleSuperAdmin {
		utils.CreateForbidden(ctx)
		return
	}

	if dbErr := storage.DB.Model(&user).Update("role", input.Role).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, user)
}

// AdminDeactivateUser toggles a user's active flag.
func AdminDeactivateUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input DeactivateUserInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	var user models.User
	if dbErr := storage.DB.First(&user, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if user.Role == models.RoleSuperAdmin {
		utils.CreateForbidden(ctx)
		return
	}

	if dbErr := storage.DB.Model(&user).Update("is_active", input.IsActive).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, user)
}

// AdminContactSubmissions lists contact-form submissions, unresolved first.
func AdminContactSubmissions(ctx iris.Context) {
	var submissions []models.ContactSubmission
	query := storage.DB.Order("is_resolved ASC, created_at DESC").Limit(200)
	if ctx.URLParam("unresolved") == "true" {
		query = query.Where("is_resolved = ?", false)
	}
	if err := query.Find(&submissions).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, submissions)
}

// AdminResolveContact marks a submission handled.
func AdminResolveContact(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	result := storage.DB.Model(&models.ContactSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_resolved": true, "resolved_at": now})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"message": "Submission resolved"})
}

type exportJob struct {
	ID        string    `json:"id"`
	Resource  string    `json:"resource"`
	Status    string    `json:"status"` // pending, processing, done, failed
	CreatedAt time.Time `json:"createdAt"`
}

var (
	exportJobs   = map[string]*exportJob{}
	exportJobsMu sync.Mutex
)

// AdminCreateExport registers an asynchronous CSV export job. In-memory only;
// jobs do not survive a restart.
func AdminCreateExport(ctx iris.Context) {
	var input CreateExportInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	job := &exportJob{
		ID:        uuid.NewString(),
		Resource:  input.Resource,
		Status:    "pending",
		CreatedAt: time.Now(),
	}
	exportJobsMu.Lock()
	exportJobs[job.ID] = job
	exportJobsMu.Unlock()

	go func(j *exportJob) {
		exportJobsMu.Lock()
		j.Status = "processing"
		exportJobsMu.Unlock()

		time.Sleep(500 * time.Millisecond)

		exportJobsMu.Lock()
		j.Status = "done"
		exportJobsMu.Unlock()
	}(job)

	utils.JSONCreated(ctx, job)
}

// AdminGetExport reports an export job's progress.
func AdminGetExport(ctx iris.Context) {
	id := ctx.Params().Get("id")

	exportJobsMu.Lock()
	job, ok := exportJobs[id]
	exportJobsMu.Unlock()
	if !ok {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, job)
}

type RejectPropertyInput struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type ChangeRoleInput struct {
	Role string `json:"role" validate:"required,oneof=USER HOST ADMIN"`
}

type DeactivateUserInput struct {
	IsActive bool `json:"isActive"`
}

type CreateExportInput struct {
	Resource string `json:"resource" validate:"required,oneof=users properties bookings payments"`
}
