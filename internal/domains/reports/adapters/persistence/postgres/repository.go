package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bdotrack/bdo-api/internal/domains/reports/domain"
	"github.com/bdotrack/bdo-api/internal/domains/reports/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists reports in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReportRecord maps the report aggregate to the reports table.
type ReportRecord struct {
	ID              string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	CreationDate    time.Time  `gorm:"column:creation_date;not null;index"`
	DeliveryDate    *time.Time `gorm:"column:delivery_date;index"`
	Airline         string     `gorm:"column:airline;type:varchar(64);not null"`
	ReferenceNumber int64      `gorm:"column:reference_number"`
	BDONumber       int64      `gorm:"column:bdo_number;index"`
	DeliveryZone    string     `gorm:"column:delivery_zone;type:varchar(64);index:idx_reports_zone_status"`
	Destination     string     `gorm:"column:destination;type:varchar(128)"`
	OperatorID      string     `gorm:"column:operator_id;type:varchar(64);index"`
	OperatorName    string     `gorm:"column:operator_name;type:varchar(128)"`
	DeliveryStatus  string     `gorm:"column:delivery_status;type:varchar(32);index:idx_reports_zone_status"`
}

func (ReportRecord) TableName() string { return "reports" }

func (r *Repository) Insert(ctx context.Context, report *domain.Report) (string, error) {
	if err := r.ensureDB(); err != nil {
		return "", err
	}
	if report == nil {
		return "", errors.New("report is nil")
	}
	record := toRecord(report)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", err
	}
	return record.ID, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record ReportRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Find(ctx context.Context, filter ports.Filter) ([]*domain.Report, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []ReportRecord
	if err := applyFilter(r.db.WithContext(ctx), filter).Order("creation_date ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	reports := make([]*domain.Report, 0, len(records))
	for i := range records {
		reports = append(reports, records[i].toDomain())
	}
	return reports, nil
}

func (r *Repository) UpdateFields(ctx context.Context, id string, update ports.StatusUpdate) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	fields := map[string]any{"delivery_status": string(update.Status)}
	if update.DeliveryDate != nil {
		fields["delivery_date"] = *update.DeliveryDate
	}
	result := r.db.WithContext(ctx).Model(&ReportRecord{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context, filter ports.Filter) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&ReportRecord{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type aggregateRow struct {
	Day            *int
	Month          *int
	Year           *int
	DeliveryZone   string
	Destination    string
	DeliveryStatus string
	Total          int64
	AverageHours   *float64
}

// Aggregate groups in SQL, extracting calendar keys in the requested time zone.
func (r *Repository) Aggregate(ctx context.Context, spec ports.GroupSpec) ([]ports.GroupResult, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	field := spec.DateField
	if field == "" {
		field = spec.Filter.Field()
	}
	column := string(field)
	zone := spec.Loc().String()

	var (
		selects []string
		args    []any
		groups  []string
	)
	for _, key := range spec.By {
		switch key {
		case ports.GroupByDay, ports.GroupByMonth, ports.GroupByYear:
			selects = append(selects, fmt.Sprintf("CAST(EXTRACT(%s FROM %s AT TIME ZONE ?) AS INTEGER) AS %s", strings.ToUpper(string(key)), column, key))
			args = append(args, zone)
			groups = append(groups, string(key))
		case ports.GroupByZone, ports.GroupByDestination, ports.GroupByStatus:
			selects = append(selects, string(key))
			groups = append(groups, string(key))
		default:
			return nil, fmt.Errorf("unsupported group key %q", key)
		}
	}
	selects = append(selects, "COUNT(*) AS total")
	if spec.AverageCompletion {
		selects = append(selects, "AVG(EXTRACT(EPOCH FROM (delivery_date - creation_date)) / 3600.0) AS average_hours")
	}

	query := applyFilter(r.db.WithContext(ctx).Model(&ReportRecord{}), spec.Filter).
		Select(strings.Join(selects, ", "), args...)
	if hasCalendarKey(spec.By) {
		query = query.Where(column + " IS NOT NULL")
	}
	if len(groups) > 0 {
		query = query.Group(strings.Join(groups, ", ")).Order(strings.Join(groups, ", "))
	}

	var rows []aggregateRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	results := make([]ports.GroupResult, 0, len(rows))
	for _, row := range rows {
		result := ports.GroupResult{
			Zone:        row.DeliveryZone,
			Destination: row.Destination,
			Status:      domain.DeliveryStatus(row.DeliveryStatus),
			Count:       row.Total,
		}
		if row.Day != nil {
			result.Day = *row.Day
		}
		if row.Month != nil {
			result.Month = *row.Month
		}
		if row.Year != nil {
			result.Year = *row.Year
		}
		if row.AverageHours != nil {
			result.AverageCompletionHours = *row.AverageHours
		}
		results = append(results, result)
	}
	return results, nil
}

func hasCalendarKey(keys []ports.GroupKey) bool {
	return ports.Has(keys, ports.GroupByDay) || ports.Has(keys, ports.GroupByMonth) || ports.Has(keys, ports.GroupByYear)
}

func applyFilter(tx *gorm.DB, filter ports.Filter) *gorm.DB {
	if filter.Zone != "" {
		tx = tx.Where("delivery_zone = ?", filter.Zone)
	}
	if filter.OperatorID != "" {
		tx = tx.Where("operator_id = ?", filter.OperatorID)
	}
	if filter.Airline != "" {
		tx = tx.Where("airline = ?", filter.Airline)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		tx = tx.Where("delivery_status IN ?", statuses)
	}
	column := string(filter.Field())
	if filter.From != nil {
		tx = tx.Where(column+" >= ?", *filter.From)
	}
	if filter.To != nil {
		tx = tx.Where(column+" < ?", *filter.To)
	}
	return tx
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres report repository not configured")
	}
	return nil
}

func toRecord(report *domain.Report) ReportRecord {
	return ReportRecord{
		ID:              report.ID,
		CreationDate:    report.CreationDate,
		DeliveryDate:    report.DeliveryDate,
		Airline:         report.Airline,
		ReferenceNumber: report.ReferenceNumber,
		BDONumber:       report.BDONumber,
		DeliveryZone:    report.DeliveryZone,
		Destination:     report.Destination,
		OperatorID:      report.Operator.ID,
		OperatorName:    report.Operator.Name,
		DeliveryStatus:  string(report.Status),
	}
}

func (r ReportRecord) toDomain() *domain.Report {
	return &domain.Report{
		ID:              r.ID,
		CreationDate:    r.CreationDate,
		DeliveryDate:    r.DeliveryDate,
		Airline:         r.Airline,
		ReferenceNumber: r.ReferenceNumber,
		BDONumber:       r.BDONumber,
		DeliveryZone:    r.DeliveryZone,
		Destination:     r.Destination,
		Operator:        domain.Operator{ID: r.OperatorID, Name: r.OperatorName},
		Status:          domain.DeliveryStatus(r.DeliveryStatus),
	}
}
