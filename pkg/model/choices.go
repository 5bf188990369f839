package model

// CompanySize classifies the organization behind a contact request.
type CompanySize string

const (
	CompanySizeStartup    CompanySize = "startup"
	CompanySizeSMB        CompanySize = "smb"
	CompanySizeMidMarket  CompanySize = "mid-market"
	CompanySizeEnterprise CompanySize = "enterprise"
	CompanySizeNonProfit  CompanySize = "non-profit"
	CompanySizeOther      CompanySize = "other"
)

var companySizeLabels = map[CompanySize]string{
	CompanySizeStartup:    "Startup",
	CompanySizeSMB:        "SMB",
	CompanySizeMidMarket:  "Mid-market",
	CompanySizeEnterprise: "Enterprise",
	CompanySizeNonProfit:  "Non-profit",
	CompanySizeOther:      "Other",
}

// CompanySizes returns all known company sizes in form order.
func CompanySizes() []CompanySize {
	return []CompanySize{
		CompanySizeStartup,
		CompanySizeSMB,
		CompanySizeMidMarket,
		CompanySizeEnterprise,
		CompanySizeNonProfit,
		CompanySizeOther,
	}
}

// Valid reports whether s is one of the known company sizes.
func (s CompanySize) Valid() bool {
	_, ok := companySizeLabels[s]
	return ok
}

// Label returns the human readable name, or the raw value if it is unknown.
func (s CompanySize) Label() string {
	if label, ok := companySizeLabels[s]; ok {
		return label
	}
	return string(s)
}

// Country is the country or region selected in the demo form.
type Country string

const (
	CountryUnitedStates  Country = "united-states"
	CountryCanada        Country = "canada"
	CountryUnitedKingdom Country = "united-kingdom"
	CountryGermany       Country = "germany"
	CountryFrance        Country = "france"
	CountryAustralia     Country = "australia"
	CountryJapan         Country = "japan"
	CountryNewZealand    Country = "new-zealand"
	CountryOther         Country = "other"
)

var countryLabels = map[Country]string{
	CountryUnitedStates:  "United States",
	CountryCanada:        "Canada",
	CountryUnitedKingdom: "United Kingdom",
	CountryGermany:       "Germany",
	CountryFrance:        "France",
	CountryAustralia:     "Australia",
	CountryJapan:         "Japan",
	CountryNewZealand:    "New Zealand",
	CountryOther:         "Other",
}

// Countries returns all known countries in form order.
func Countries() []Country {
	return []Country{
		CountryUnitedStates,
		CountryCanada,
		CountryUnitedKingdom,
		CountryGermany,
		CountryFrance,
		CountryAustralia,
		CountryJapan,
		CountryNewZealand,
		CountryOther,
	}
}

// Valid reports whether c is one of the known countries.
func (c Country) Valid() bool {
	_, ok := countryLabels[c]
	return ok
}

// Label returns the human readable name, or the raw value if it is unknown.
func (c Country) Label() string {
	if label, ok := countryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Status tracks how far the sales team got with a contact request.
type Status string

const (
	StatusNew        Status = "new"
	StatusContacted  Status = "contacted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusClosed     Status = "closed"
)

var statusLabels = map[Status]string{
	StatusNew:        "New",
	StatusContacted:  "Contacted",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
	StatusClosed:     "Closed",
}

// Statuses returns all known statuses in workflow order.
func Statuses() []Status {
	return []Status{StatusNew, StatusContacted, StatusInProgress, StatusCompleted, StatusClosed}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human readable name, or the raw value if it is unknown.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
