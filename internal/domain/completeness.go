package domain

// profileFields lists, in display order, the KYC fields a profile must fill
// before a loan application is accepted. Document URLs are checked
// separately (DocumentsComplete) so routing and monetary gates can differ.
var profileFields = []struct {
	name  string
	value func(*User) string
}{
	{"name", func(u *User) string { return u.Name }},
	{"phone", func(u *User) string { return u.Phone }},
	{"email", func(u *User) string { return u.Email }},
	{"date_of_birth", func(u *User) string { return u.DateOfBirth }},
	{"address", func(u *User) string { return u.Address }},
	{"city", func(u *User) string { return u.City }},
	{"state", func(u *User) string { return u.State }},
	{"pincode", func(u *User) string { return u.Pincode }},
	{"employment_type", func(u *User) string { return u.EmploymentType }},
	{"aadhar_number", func(u *User) string { return u.AadharNumber }},
	{"pan_number", func(u *User) string { return u.PanNumber }},
}

// Completeness is the result of evaluating a profile against the required
// KYC field list. Percent is an integer 0–100, rounded half up.
type Completeness struct {
	Complete          bool     `json:"complete"`
	Percent           int      `json:"percent"`
	MissingFields     []string `json:"missing_fields"`
	DocumentsComplete bool     `json:"documents_complete"`
	MissingDocuments  []string `json:"missing_documents"`
}

// EvaluateProfile is the single canonical completeness check, shared by the
// routing endpoint, the loan-application gate and the admin statistics so
// the three can never drift apart.
func EvaluateProfile(u *User) Completeness {
	c := Completeness{MissingFields: []string{}, MissingDocuments: []string{}}
	filled := 0
	for _, f := range profileFields {
		if f.value(u) != "" {
			filled++
		} else {
			c.MissingFields = append(c.MissingFields, f.name)
		}
	}
	total := len(profileFields)
	c.Complete = filled == total
	c.Percent = (filled*100 + total/2) / total // round half up

	docs := []struct{ name, url string }{
		{"aadhar_card", u.AadharCardURL},
		{"pan_card", u.PanCardURL},
		{"selfie", u.SelfieURL},
	}
	c.DocumentsComplete = true
	for _, d := range docs {
		if d.url == "" {
			c.DocumentsComplete = false
			c.MissingDocuments = append(c.MissingDocuments, d.name)
		}
	}
	return c
}
