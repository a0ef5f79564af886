package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"rentora-server/config"
	"rentora-server/models"
	"rentora-server/storage"

	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
)

// Task types processed by the background worker. Handlers are idempotent so a
// retried delivery never duplicates user-visible state.
const (
	TypeEmailSend        = "email:send"
	TypeNotificationSend = "notification:send"
	TypeSearchIndex      = "search:index"
	TypeMarketplaceIndex = "search:index-item"
)

type EmailPayload struct {
	To       string `json:"to"`
	ToName   string `json:"toName"`
	Subject  string `json:"subject"`
	Text     string `json:"text"`
	HTML     string `json:"html"`
	Template string `json:"template,omitempty"`
}

type NotificationPayload struct {
	UserID  uint           `json:"userId"`
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

type SearchIndexPayload struct {
	PropertyID uint `json:"propertyId"`
	Remove     bool `json:"remove,omitempty"`
}

type MarketplaceIndexPayload struct {
	ItemID uint `json:"itemId"`
	Remove bool `json:"remove,omitempty"`
}

// JobClient enqueues background work onto Redis. Enqueue failures are logged
// and swallowed: a booking must not fail because its notification could not be
// queued.
type JobClient struct {
	client *asynq.Client
}

func NewJobClient() *JobClient {
	cfg := config.Get()
	return &JobClient{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisURL}),
	}
}

func (c *JobClient) Close() error { return c.client.Close() }

func (c *JobClient) enqueue(taskType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("jobs: marshal %s payload: %v", taskType, err)
		return
	}
	task := asynq.NewTask(taskType, data)
	if _, err := c.client.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)); err != nil {
		log.Printf("jobs: enqueue %s: %v", taskType, err)
	}
}

func (c *JobClient) EnqueueEmail(p EmailPayload) {
	c.enqueue(TypeEmailSend, p)
}

func (c *JobClient) EnqueueNotification(p NotificationPayload) {
	c.enqueue(TypeNotificationSend, p)
}

func (c *JobClient) EnqueueSearchIndex(propertyID uint, remove bool) {
	c.enqueue(TypeSearchIndex, SearchIndexPayload{PropertyID: propertyID, Remove: remove})
}

func (c *JobClient) EnqueueMarketplaceIndex(itemID uint, remove bool) {
	c.enqueue(TypeMarketplaceIndex, MarketplaceIndexPayload{ItemID: itemID, Remove: remove})
}

// NewWorkerServer builds the asynq worker that drains the three queues. Run it
// in its own goroutine next to the HTTP server.
func NewWorkerServer() *asynq.Server {
	cfg := config.Get()
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisURL},
		asynq.Config{Concurrency: 5},
	)
}

// NewWorkerMux wires task handlers. Split from NewWorkerServer so tests can
// drive handlers directly.
func NewWorkerMux(mailer *Mailer, search *SearchService) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailSend, handleEmailTask(mailer))
	mux.HandleFunc(TypeNotificationSend, handleNotificationTask)
	mux.HandleFunc(TypeSearchIndex, handleSearchIndexTask(search))
	mux.HandleFunc(TypeMarketplaceIndex, handleMarketplaceIndexTask(search))
	return mux
}

func handleEmailTask(mailer *Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p EmailPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("email payload: %w: %w", err, asynq.SkipRetry)
		}
		return mailer.Send(p.To, p.ToName, p.Subject, p.Text, p.HTML)
	}
}

func handleNotificationTask(ctx context.Context, t *asynq.Task) error {
	var p NotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("notification payload: %w: %w", err, asynq.SkipRetry)
	}

	var data datatypes.JSON
	if p.Data != nil {
		raw, err := json.Marshal(p.Data)
		if err != nil {
			return fmt.Errorf("notification data: %w: %w", err, asynq.SkipRetry)
		}
		data = raw
	}

	notification := models.Notification{
		UserID:  p.UserID,
		Type:    p.Type,
		Title:   p.Title,
		Message: p.Message,
		Data:    data,
	}
	return storage.DB.WithContext(ctx).Create(&notification).Error
}

func handleSearchIndexTask(search *SearchService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p SearchIndexPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("search payload: %w: %w", err, asynq.SkipRetry)
		}
		if p.Remove {
			search.RemoveProperty(ctx, p.PropertyID)
			return nil
		}

		var property models.Property
		if err := storage.DB.WithContext(ctx).First(&property, p.PropertyID).Error; err != nil {
			// Listing gone between enqueue and processing; drop the doc.
			search.RemoveProperty(ctx, p.PropertyID)
			return nil
		}
		search.IndexProperty(ctx, &property)
		return nil
	}
}

func handleMarketplaceIndexTask(search *SearchService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p MarketplaceIndexPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("marketplace payload: %w: %w", err, asynq.SkipRetry)
		}
		if p.Remove {
			search.RemoveMarketplaceItem(ctx, p.ItemID)
			return nil
		}

		var item models.MarketplaceItem
		if err := storage.DB.WithContext(ctx).Preload("Category").First(&item, p.ItemID).Error; err != nil {
			// Listing gone between enqueue and processing; drop the doc.
			search.RemoveMarketplaceItem(ctx, p.ItemID)
			return nil
		}
		search.IndexMarketplaceItem(ctx, &item)
		return nil
	}
}
