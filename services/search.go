package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"rentora-server/config"
	"rentora-server/models"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const (
	propertiesCollection  = "properties"
	marketplaceCollection = "marketplace_items"
)

// SearchService wraps the Typesense indexes of published properties and active
// marketplace items. Indexing is best-effort: a failed write is logged and the
// database stays the source of truth, so a down search cluster never blocks a
// mutation.
type SearchService struct {
	client *typesense.Client
}

func NewSearchService() *SearchService {
	cfg := config.Get()
	if cfg.TypesenseAPIKey == "" {
		return &SearchService{}
	}
	client := typesense.NewClient(
		typesense.WithServer(fmt.Sprintf("%s://%s:%d", cfg.TypesenseProtocol, cfg.TypesenseHost, cfg.TypesensePort)),
		typesense.WithAPIKey(cfg.TypesenseAPIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)
	return &SearchService{client: client}
}

func (s *SearchService) Enabled() bool { return s.client != nil }

// EnsureCollections creates the collections that do not exist yet.
func (s *SearchService) EnsureCollections(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	if err := s.ensureCollection(ctx, &api.CollectionSchema{
		Name: propertiesCollection,
		Fields: []api.Field{
			{Name: "title", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "property_type", Type: "string", Facet: pointer.True()},
			{Name: "price", Type: "float", Facet: pointer.True()},
			{Name: "price_unit", Type: "string", Facet: pointer.True()},
			{Name: "bedrooms", Type: "int32", Facet: pointer.True()},
			{Name: "rating", Type: "float"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}); err != nil {
		return err
	}

	return s.ensureCollection(ctx, &api.CollectionSchema{
		Name: marketplaceCollection,
		Fields: []api.Field{
			{Name: "title", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "condition", Type: "string", Facet: pointer.True()},
			{Name: "price", Type: "float", Facet: pointer.True()},
			{Name: "is_negotiable", Type: "bool"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	})
}

func (s *SearchService) ensureCollection(ctx context.Context, schema *api.CollectionSchema) error {
	if _, err := s.client.Collection(schema.Name).Retrieve(ctx); err == nil {
		return nil
	}
	_, err := s.client.Collections().Create(ctx, schema)
	return err
}

func propertyDocument(p *models.Property) map[string]interface{} {
	bedrooms := int32(0)
	if p.Bedrooms != nil {
		bedrooms = int32(*p.Bedrooms)
	}
	return map[string]interface{}{
		"id":            fmt.Sprintf("%d", p.ID),
		"title":         p.Title,
		"description":   p.Description,
		"city":          p.City,
		"property_type": p.Type,
		"price":         p.Price,
		"price_unit":    p.PriceUnit,
		"bedrooms":      bedrooms,
		"rating":        p.Rating,
		"created_at":    p.CreatedAt.Unix(),
	}
}

// IndexProperty upserts the property document. Only AVAILABLE listings belong
// in the index; anything else is removed.
func (s *SearchService) IndexProperty(ctx context.Context, p *models.Property) {
	if !s.Enabled() {
		return
	}
	if p.Status != models.PropertyStatusAvailable {
		s.RemoveProperty(ctx, p.ID)
		return
	}
	if _, err := s.client.Collection(propertiesCollection).Documents().Upsert(ctx, propertyDocument(p)); err != nil {
		log.Printf("search: failed to index property %d: %v", p.ID, err)
	}
}

func (s *SearchService) RemoveProperty(ctx context.Context, propertyID uint) {
	if !s.Enabled() {
		return
	}
	id := fmt.Sprintf("%d", propertyID)
	if _, err := s.client.Collection(propertiesCollection).Document(id).Delete(ctx); err != nil {
		log.Printf("search: failed to remove property %s: %v", id, err)
	}
}

func marketplaceDocument(item *models.MarketplaceItem) map[string]interface{} {
	category := ""
	if item.Category != nil {
		category = item.Category.Name
	}
	return map[string]interface{}{
		"id":            fmt.Sprintf("%d", item.ID),
		"title":         item.Title,
		"description":   item.Description,
		"city":          item.City,
		"category":      category,
		"condition":     item.Condition,
		"price":         item.Price,
		"is_negotiable": item.IsNegotiable,
		"created_at":    item.CreatedAt.Unix(),
	}
}

// IndexMarketplaceItem upserts the item document. Only ACTIVE items belong in
// the index; sold, reserved and deleted listings are removed.
func (s *SearchService) IndexMarketplaceItem(ctx context.Context, item *models.MarketplaceItem) {
	if !s.Enabled() {
		return
	}
	if item.Status != models.MarketplaceStatusActive {
		s.RemoveMarketplaceItem(ctx, item.ID)
		return
	}
	if _, err := s.client.Collection(marketplaceCollection).Documents().Upsert(ctx, marketplaceDocument(item)); err != nil {
		log.Printf("search: failed to index marketplace item %d: %v", item.ID, err)
	}
}

func (s *SearchService) RemoveMarketplaceItem(ctx context.Context, itemID uint) {
	if !s.Enabled() {
		return
	}
	id := fmt.Sprintf("%d", itemID)
	if _, err := s.client.Collection(marketplaceCollection).Document(id).Delete(ctx); err != nil {
		log.Printf("search: failed to remove marketplace item %s: %v", id, err)
	}
}

type SearchPropertiesInput struct {
	Query    string
	City     string
	Type     string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

// Search runs a full-text query with optional facet filters and returns
// matching property IDs plus the raw documents.
func (s *SearchService) Search(ctx context.Context, in SearchPropertiesInput) ([]uint, int, error) {
	if !s.Enabled() {
		return nil, 0, fmt.Errorf("search is not configured")
	}

	query := in.Query
	if query == "" {
		query = "*"
	}
	var filters []string
	if in.City != "" {
		filters = append(filters, fmt.Sprintf("city:=%s", in.City))
	}
	if in.Type != "" {
		filters = append(filters, fmt.Sprintf("property_type:=%s", in.Type))
	}
	if in.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price:>=%g", *in.MinPrice))
	}
	if in.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price:<=%g", *in.MaxPrice))
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("title,description,city"),
		Page:    pointer.Int(in.Page),
		PerPage: pointer.Int(in.Limit),
		SortBy:  pointer.String("_text_match:desc,rating:desc"),
	}
	if len(filters) > 0 {
		params.FilterBy = pointer.String(strings.Join(filters, " && "))
	}

	result, err := s.client.Collection(propertiesCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	ids, total := hitIDs(result)
	return ids, total, nil
}

type SearchMarketplaceInput struct {
	Query     string
	City      string
	Category  string
	Condition string
	MinPrice  *float64
	MaxPrice  *float64
	Page      int
	Limit     int
}

// SearchMarketplace runs a full-text query over active marketplace items and
// returns matching item IDs in relevance order.
func (s *SearchService) SearchMarketplace(ctx context.Context, in SearchMarketplaceInput) ([]uint, int, error) {
	if !s.Enabled() {
		return nil, 0, fmt.Errorf("search is not configured")
	}

	query := in.Query
	if query == "" {
		query = "*"
	}
	var filters []string
	if in.City != "" {
		filters = append(filters, fmt.Sprintf("city:=%s", in.City))
	}
	if in.Category != "" {
		filters = append(filters, fmt.Sprintf("category:=%s", in.Category))
	}
	if in.Condition != "" {
		filters = append(filters, fmt.Sprintf("condition:=%s", in.Condition))
	}
	if in.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price:>=%g", *in.MinPrice))
	}
	if in.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price:<=%g", *in.MaxPrice))
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("title,description,city"),
		Page:    pointer.Int(in.Page),
		PerPage: pointer.Int(in.Limit),
		SortBy:  pointer.String("_text_match:desc,created_at:desc"),
	}
	if len(filters) > 0 {
		params.FilterBy = pointer.String(strings.Join(filters, " && "))
	}

	result, err := s.client.Collection(marketplaceCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	ids, total := hitIDs(result)
	return ids, total, nil
}

// hitIDs pulls the numeric document IDs out of a search result, keeping the
// index's relevance order.
func hitIDs(result *api.SearchResult) ([]uint, int) {
	var ids []uint
	if result.Hits != nil {
		for _, hit := range *result.Hits {
			if hit.Document == nil {
				continue
			}
			doc := *hit.Document
			if raw, ok := doc["id"].(string); ok {
				var id uint
				if _, err := fmt.Sscanf(raw, "%d", &id); err == nil {
					ids = append(ids, id)
				}
			}
		}
	}
	total := 0
	if result.Found != nil {
		total = *result.Found
	}
	return ids, total
}
