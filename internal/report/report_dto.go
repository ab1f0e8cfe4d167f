package report

import "time"

// Title and content rules are checked by the service so that each
// violation reports its own kind.
type CreateReportRequest struct {
	ReportDate string `json:"report_date"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// An empty ReportDate keeps the stored date.
type UpdateReportRequest struct {
	ReportDate string `json:"report_date"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

type ReportFilter struct {
	EmployeeCode string     `form:"employee_code"`
	From         *time.Time `form:"-"`
	To           *time.Time `form:"-"`
}

type ReportResponse struct {
	ID           uint      `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	ReportDate   string    `json:"report_date"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type DateCheckResponse struct {
	EmployeeCode string `json:"employee_code"`
	ReportDate   string `json:"report_date"`
	Duplicate    bool   `json:"duplicate"`
}
