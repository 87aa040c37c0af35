package domain

import "time"

// AppType is the single-letter category code stored for an App.
type AppType string

const (
	AppTypeCommercial AppType = "C"
	AppTypePersonal   AppType = "P"
	AppTypeEnterprise AppType = "E"
	AppTypeBusiness   AppType = "B"
	AppTypeStartup    AppType = "S"
	AppTypeOther      AppType = "O"
)

// AppTypes lists every category in display order.
var AppTypes = []AppType{
	AppTypeCommercial,
	AppTypePersonal,
	AppTypeEnterprise,
	AppTypeBusiness,
	AppTypeStartup,
	AppTypeOther,
}

var appTypeLabels = map[AppType]string{
	AppTypeCommercial: "commercial",
	AppTypePersonal:   "personal",
	AppTypeEnterprise: "enterprise",
	AppTypeBusiness:   "business",
	AppTypeStartup:    "startup",
	AppTypeOther:      "other",
}

// Label returns the human-readable category name.
func (t AppType) Label() string {
	if l, ok := appTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t AppType) Valid() bool {
	_, ok := appTypeLabels[t]
	return ok
}

// ParseAppType accepts either the stored code ("C") or its label ("commercial").
// An empty string yields the default category.
func ParseAppType(s string) (AppType, bool) {
	if s == "" {
		return AppTypeCommercial, true
	}
	if t := AppType(s); t.Valid() {
		return t, true
	}
	for t, l := range appTypeLabels {
		if l == s {
			return t, true
		}
	}
	return "", false
}

type App struct {
	ID          int64
	Name        string
	Image       string
	DateAdded   time.Time
	Type        AppType
	Description string
}

type User struct {
	ID         int64
	Username   string
	DateJoined time.Time
}

type Review struct {
	ID        int64
	AppID     int64
	UserID    int64
	Username  string
	Rating    int
	Comment   string
	DateAdded time.Time
}

type Store struct {
	ID       int64
	Name     string
	Location string
}

type Certificate struct {
	ID                int64
	AppID             int64
	AppName           string
	CertificateNumber string
	IssueDate         time.Time
	ValidUntil        time.Time
}
