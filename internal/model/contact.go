package model

// ContactForm holds the submitted contact-us fields. Partnership inquiries
// share the same shape and rules, they just land on a different endpoint.
type ContactForm struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Subject   string
	Message   string
}

// Contact/partnership field limits
const (
	ContactNameMin    = 3
	ContactNameMax    = 20
	ContactEmailMax   = 50
	ContactSubjectMin = 3
	ContactSubjectMax = 20
	ContactMessageMin = 10
	ContactMessageMax = 500
)

// Signup field limits
const (
	UsernameMin = 3
	UsernameMax = 20
	PasswordMin = 8
	PasswordMax = 25
	BioMin      = 50
	BioMax      = 500
)
