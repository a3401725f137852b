package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/domains/reports/ports"
)

// CollectionName is the collection reports are stored in.
const CollectionName = "reports"

var _ ports.Repository = (*Repository)(nil)

// Repository persists reports as documents in MongoDB.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository wraps the reports collection of db. Caller manages the client lifecycle.
func NewRepository(db *mongo.Database) *Repository {
	if db == nil {
		return &Repository{}
	}
	return &Repository{collection: db.Collection(CollectionName)}
}

// EnsureIndexes creates the indexes the list and dashboard queries rely on.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	if err := r.ensureCollection(); err != nil {
		return err
	}
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "delivery_zone", Value: 1}, {Key: "delivery_status", Value: 1}}},
		{Keys: bson.D{{Key: "operator.operator_id", Value: 1}}},
		{Keys: bson.D{{Key: "creation_date", Value: 1}}},
		{Keys: bson.D{{Key: "delivery_date", Value: 1}}},
	})
	return err
}

func (r *Repository) Insert(ctx context.Context, report *domain.Report) (string, error) {
	if err := r.ensureCollection(); err != nil {
		return "", err
	}
	if report == nil {
		return "", errors.New("report is nil")
	}
	doc, err := toDocument(report)
	if err != nil {
		return "", err
	}
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id.Hex(), nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrNotFound
	}
	var doc reportDocument
	if err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *Repository) Find(ctx context.Context, filter ports.Filter) ([]*domain.Report, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	cursor, err := r.collection.Find(ctx, matchStage(filter, ""), options.Find().SetSort(bson.D{{Key: "creation_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []reportDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	reports := make([]*domain.Report, 0, len(docs))
	for _, doc := range docs {
		reports = append(reports, doc.toDomain())
	}
	return reports, nil
}

func (r *Repository) UpdateFields(ctx context.Context, id string, update ports.StatusUpdate) error {
	if err := r.ensureCollection(); err != nil {
		return err
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ports.ErrNotFound
	}
	set := bson.D{{Key: "delivery_status", Value: string(update.Status)}}
	if update.DeliveryDate != nil {
		set = append(set, bson.E{Key: "delivery_date", Value: *update.DeliveryDate})
	}
	result, err := r.collection.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context, filter ports.Filter) (int64, error) {
	if err := r.ensureCollection(); err != nil {
		return 0, err
	}
	return r.collection.CountDocuments(ctx, matchStage(filter, ""))
}

// Aggregate runs a $match/$group pipeline with calendar keys computed server side.
func (r *Repository) Aggregate(ctx context.Context, spec ports.GroupSpec) ([]ports.GroupResult, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	pipeline, err := buildPipeline(spec)
	if err != nil {
		return nil, err
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var groups []groupDocument
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	results := make([]ports.GroupResult, 0, len(groups))
	for _, g := range groups {
		result := ports.GroupResult{
			Day:         g.ID.Day,
			Month:       g.ID.Month,
			Year:        g.ID.Year,
			Zone:        g.ID.Zone,
			Destination: g.ID.Destination,
			Status:      domain.DeliveryStatus(g.ID.Status),
			Count:       g.Total,
		}
		if g.AverageMillis != nil {
			result.AverageCompletionHours = *g.AverageMillis / 3_600_000
		}
		results = append(results, result)
	}
	return results, nil
}

func buildPipeline(spec ports.GroupSpec) (mongo.Pipeline, error) {
	field := spec.DateField
	if field == "" {
		field = spec.Filter.Field()
	}
	dateRef := "$" + string(field)
	timezone := spec.Loc().String()

	keys := bson.D{}
	calendar := false
	for _, key := range spec.By {
		switch key {
		case ports.GroupByDay:
			keys = append(keys, bson.E{Key: "day", Value: bson.D{{Key: "$dayOfMonth", Value: bson.D{{Key: "date", Value: dateRef}, {Key: "timezone", Value: timezone}}}}})
			calendar = true
		case ports.GroupByMonth:
			keys = append(keys, bson.E{Key: "month", Value: bson.D{{Key: "$month", Value: bson.D{{Key: "date", Value: dateRef}, {Key: "timezone", Value: timezone}}}}})
			calendar = true
		case ports.GroupByYear:
			keys = append(keys, bson.E{Key: "year", Value: bson.D{{Key: "$year", Value: bson.D{{Key: "date", Value: dateRef}, {Key: "timezone", Value: timezone}}}}})
			calendar = true
		case ports.GroupByZone, ports.GroupByDestination, ports.GroupByStatus:
			keys = append(keys, bson.E{Key: string(key), Value: "$" + string(key)})
		default:
			return nil, fmt.Errorf("unsupported group key %q", key)
		}
	}
	var present ports.DateField
	if calendar {
		present = field
	}
	match := matchStage(spec.Filter, present)

	group := bson.D{
		{Key: "_id", Value: keys},
		{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
	}
	if spec.AverageCompletion {
		group = append(group, bson.E{Key: "average_ms", Value: bson.D{{Key: "$avg", Value: bson.D{{Key: "$subtract", Value: bson.A{"$delivery_date", "$creation_date"}}}}}})
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: group}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}, {Key: "_id.day", Value: 1}}}},
	}, nil
}

// matchStage translates filter into a $match document. When present is set,
// documents lacking that date field are excluded.
func matchStage(filter ports.Filter, present ports.DateField) bson.D {
	match := bson.D{}
	if filter.Zone != "" {
		match = append(match, bson.E{Key: "delivery_zone", Value: filter.Zone})
	}
	if filter.OperatorID != "" {
		match = append(match, bson.E{Key: "operator.operator_id", Value: filter.OperatorID})
	}
	if filter.Airline != "" {
		match = append(match, bson.E{Key: "airline", Value: filter.Airline})
	}
	if len(filter.Statuses) > 0 {
		statuses := bson.A{}
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		match = append(match, bson.E{Key: "delivery_status", Value: bson.D{{Key: "$in", Value: statuses}}})
	}
	window := bson.D{}
	if filter.From != nil {
		window = append(window, bson.E{Key: "$gte", Value: *filter.From})
	}
	if filter.To != nil {
		window = append(window, bson.E{Key: "$lt", Value: *filter.To})
	}
	if present != "" && present == filter.Field() {
		window = append(window, bson.E{Key: "$ne", Value: nil})
		present = ""
	}
	if len(window) > 0 {
		match = append(match, bson.E{Key: string(filter.Field()), Value: window})
	}
	if present != "" {
		match = append(match, bson.E{Key: string(present), Value: bson.D{{Key: "$ne", Value: nil}}})
	}
	return match
}

func (r *Repository) ensureCollection() error {
	if r == nil || r.collection == nil {
		return errors.New("mongo report repository not configured")
	}
	return nil
}
