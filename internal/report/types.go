package report

import (
	"strings"
)

// Admin holds the administrative header fields of a service report.
type Admin struct {
	ReportNumber string `json:"report_number"`
	ReportDate   string `json:"report_date"`
	OrderNumber  string `json:"order_number"`
	Technician   string `json:"technician"`
}

// Customer identifies the customer and the serviced system.
type Customer struct {
	Company      string `json:"company"`
	ContactName  string `json:"contact_name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	System       string `json:"system"`
	SerialNumber string `json:"serial_number"`
	Location     string `json:"location"`
}

// Timing records arrival, departure and effort figures for the visit.
type Timing struct {
	Arrival     string  `json:"arrival"`
	Departure   string  `json:"departure"`
	WorkHours   float64 `json:"work_hours"`
	TravelHours float64 `json:"travel_hours"`
	Kilometers  float64 `json:"kilometers"`
}

// JobTypes is the fixed set of job classification checkboxes.
type JobTypes struct {
	Maintenance  bool   `json:"maintenance"`
	Repair       bool   `json:"repair"`
	Installation bool   `json:"installation"`
	Inspection   bool   `json:"inspection"`
	Warranty     bool   `json:"warranty"`
	Other        bool   `json:"other"`
	OtherText    string `json:"other_text"`
}

// ServiceTypes is the fixed set of service classification checkboxes.
type ServiceTypes struct {
	Regular          bool `json:"regular"`
	Emergency        bool `json:"emergency"`
	Weekend          bool `json:"weekend"`
	FollowupRequired bool `json:"followup_required"`
}

// Part is a single line of the used-parts table.
type Part struct {
	Quantity      float64 `json:"quantity"`
	ArticleNumber string  `json:"article_number"`
	Description   string  `json:"description"`
}

// Photo is an embedded site photo with its caption. Image holds a
// self-describing data URL so the serialized report is self-contained.
type Photo struct {
	ID      string `json:"id"`
	Image   string `json:"image"`
	Caption string `json:"caption"`
}

// Signature is a captured signature image together with the signer's name.
type Signature struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Report is the complete service report record. All image fields hold data
// URLs, never file paths.
type Report struct {
	Admin         Admin        `json:"admin"`
	Customer      Customer     `json:"customer"`
	Timing        Timing       `json:"timing"`
	JobTypes      JobTypes     `json:"job_types"`
	ServiceTypes  ServiceTypes `json:"service_types"`
	WorkPerformed string       `json:"work_performed"`
	Remarks       string       `json:"remarks"`
	Parts         []Part       `json:"parts"`
	Logo          string       `json:"logo"`
	Photos        []Photo      `json:"photos"`
	Technician    Signature    `json:"technician_signature"`
	CustomerSig   Signature    `json:"customer_signature"`
}

// DefaultReport returns an empty report with the fields a fresh editing
// session starts from.
func DefaultReport() *Report {
	return &Report{
		Admin: Admin{
			ReportNumber: "service-report",
		},
		Parts:  []Part{},
		Photos: []Photo{},
	}
}

// DocumentName derives the identifier used to title exported artifacts.
// It falls back to a fixed name when the report number is blank and strips
// characters that are unsafe in filenames.
func (r *Report) DocumentName() string {
	name := strings.TrimSpace(r.Admin.ReportNumber)
	if name == "" {
		name = "service-report"
	}

	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '-' || c == '_' || c == '.':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Clone returns a deep copy of the report so callers cannot mutate the
// store's record through returned values.
func (r *Report) Clone() *Report {
	c := *r
	c.Parts = make([]Part, len(r.Parts))
	copy(c.Parts, r.Parts)
	c.Photos = make([]Photo, len(r.Photos))
	copy(c.Photos, r.Photos)
	return &c
}
