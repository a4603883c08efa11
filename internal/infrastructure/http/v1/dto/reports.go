package dto

import (
	"time"
)

// SalesReportQuery for GET /reports/sales.
type SalesReportQuery struct {
	FromDate time.Time `form:"fromDate" time_format:"2006-01-02" binding:"required"`
	ToDate   time.Time `form:"toDate" time_format:"2006-01-02" binding:"required"`
	GroupBy  string    `form:"groupBy"`
	Limit    int       `form:"limit"`
	Offset   int       `form:"offset"`
}

// GSTReportQuery for GET /reports/gst.
type GSTReportQuery struct {
	FromDate time.Time `form:"fromDate" time_format:"2006-01-02" binding:"required"`
	ToDate   time.Time `form:"toDate" time_format:"2006-01-02" binding:"required"`
}

// TopSellersQuery for GET /reports/top-sellers.
type TopSellersQuery struct {
	FromDate time.Time `form:"fromDate" time_format:"2006-01-02" binding:"required"`
	ToDate   time.Time `form:"toDate" time_format:"2006-01-02" binding:"required"`
	Limit    int       `form:"limit"`
}
