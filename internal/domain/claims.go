package domain

// Claims are the identity facts asserted by a verified token. Email is the
// only authorization-relevant field; DisplayName and PhotoURL are
// self-reported display data and must never influence role or status.
type Claims struct {
	Email       string
	SubjectID   string
	DisplayName string
	PhotoURL    string
}
