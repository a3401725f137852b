package mapper

import (
	"time"

	dashports "github.com/bdotrack/bdo-api/internal/domains/dashboard/ports"
)

// ReportCount is one calendar bucket. Day and month are null when the window
// does not bucket on them.
type ReportCount struct {
	Day        *int    `json:"day"`
	Month      *string `json:"month"`
	Year       int     `json:"year"`
	TotalCount int64   `json:"total_count"`
}

// ReportData is a raw report row backing a short-window count.
type ReportData struct {
	DeliveryDate *time.Time `json:"delivery_date"`
	CreationDate time.Time  `json:"creation_date"`
	BDONumber    int64      `json:"bdo_number"`
	Airline      string     `json:"airline"`
	Status       string     `json:"delivery_status"`
	Destination  string     `json:"destination"`
}

type ReportCountResponse struct {
	Reports     []ReportCount `json:"reports"`
	ReportsData []ReportData  `json:"reports_data"`
}

type CompletionTime struct {
	Zone        string  `json:"delivery_zone"`
	Destination string  `json:"destination"`
	AverageTime float64 `json:"average_time"`
}

type CompletionTimeResponse struct {
	CompletionTimes []CompletionTime `json:"completion_times"`
}

type StatusPercentage struct {
	Status     string `json:"status"`
	Percentage int    `json:"percentage"`
}

type StatusPercentageResponse struct {
	Statuses []StatusPercentage `json:"statuses"`
}

// FromCounts converts report counts to the transport shape. reports_data is
// always an array.
func FromCounts(counts *dashports.Counts) ReportCountResponse {
	resp := ReportCountResponse{Reports: []ReportCount{}, ReportsData: []ReportData{}}
	if counts == nil {
		return resp
	}
	for _, row := range counts.Rows {
		item := ReportCount{Year: row.Year, TotalCount: row.Total}
		if row.Day != 0 {
			day := row.Day
			item.Day = &day
		}
		if row.Month != "" {
			month := row.Month
			item.Month = &month
		}
		resp.Reports = append(resp.Reports, item)
	}
	for _, r := range counts.Reports {
		resp.ReportsData = append(resp.ReportsData, ReportData{
			DeliveryDate: r.DeliveryDate,
			CreationDate: r.CreationDate,
			BDONumber:    r.BDONumber,
			Airline:      r.Airline,
			Status:       r.Status.String(),
			Destination:  r.Destination,
		})
	}
	return resp
}

func FromCompletionTimes(times []dashports.CompletionTime) CompletionTimeResponse {
	resp := CompletionTimeResponse{CompletionTimes: make([]CompletionTime, 0, len(times))}
	for _, t := range times {
		resp.CompletionTimes = append(resp.CompletionTimes, CompletionTime{Zone: t.Zone, Destination: t.Destination, AverageTime: t.AverageHours})
	}
	return resp
}

func FromStatusPercentages(items []dashports.StatusPercentage) StatusPercentageResponse {
	resp := StatusPercentageResponse{Statuses: make([]StatusPercentage, 0, len(items))}
	for _, item := range items {
		resp.Statuses = append(resp.Statuses, StatusPercentage{Status: item.Status.String(), Percentage: item.Percentage})
	}
	return resp
}
