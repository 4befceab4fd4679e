package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullProfile() *User {
	return &User{
		Name: "Asha", Phone: "+919876543210", Email: "asha@example.com",
		DateOfBirth: "1994-01-15", Address: "12 MG Road", City: "Pune",
		State: "Maharashtra", Pincode: "411001", EmploymentType: EmploymentSalaried,
		AadharNumber: "123412341234", PanNumber: "ABCDE1234F",
		AadharCardURL: "s3://b/a.jpg", PanCardURL: "s3://b/p.jpg", SelfieURL: "s3://b/s.jpg",
	}
}

func TestEvaluateProfile_Complete(t *testing.T) {
	c := EvaluateProfile(fullProfile())
	assert.True(t, c.Complete)
	assert.Equal(t, 100, c.Percent)
	assert.Empty(t, c.MissingFields)
	assert.True(t, c.DocumentsComplete)
	assert.Empty(t, c.MissingDocuments)
}

func TestEvaluateProfile_OneFieldMissing(t *testing.T) {
	u := fullProfile()
	u.Pincode = ""
	c := EvaluateProfile(u)
	assert.False(t, c.Complete)
	assert.Equal(t, 91, c.Percent) // 10/11 rounds half up
	assert.Equal(t, []string{"pincode"}, c.MissingFields)
}

func TestEvaluateProfile_Empty(t *testing.T) {
	c := EvaluateProfile(&User{})
	assert.False(t, c.Complete)
	assert.Equal(t, 0, c.Percent)
	assert.Len(t, c.MissingFields, 11)
	assert.False(t, c.DocumentsComplete)
	assert.Equal(t, []string{"aadhar_card", "pan_card", "selfie"}, c.MissingDocuments)
}

func TestEvaluateProfile_DocumentsSeparateFromFields(t *testing.T) {
	u := fullProfile()
	u.SelfieURL = ""
	c := EvaluateProfile(u)
	// Text fields are all present; only the document check fails.
	assert.True(t, c.Complete)
	assert.Equal(t, 100, c.Percent)
	assert.False(t, c.DocumentsComplete)
	assert.Equal(t, []string{"selfie"}, c.MissingDocuments)
}
