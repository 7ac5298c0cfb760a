package models

// UserProfile defines the structure for user profiles. Profiles are owned
// by the profile-management collaborator; the matching core only reads them.
type UserProfile struct {
	UserID     string   `dynamodbav:"userId" json:"userId"`
	Name       string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	EmailID    string   `dynamodbav:"emailId,omitempty" json:"emailId,omitempty"`
	Bio        string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	DOB        string   `dynamodbav:"dob,omitempty" json:"dob,omitempty"` // YYYY-MM-DD
	Gender     string   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	Occupation string   `dynamodbav:"occupation,omitempty" json:"occupation,omitempty"`
	Education  string   `dynamodbav:"education,omitempty" json:"education,omitempty"`
	Interests  []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	Languages  []string `dynamodbav:"languages,omitempty" json:"languages,omitempty"`
	Photos     []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`

	// Location is optional. Nil pointers mean the user never shared it and
	// the distance sentinel applies.
	Latitude  *float64 `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`

	LastActive string `dynamodbav:"lastActive,omitempty" json:"lastActive,omitempty"` // RFC3339
	IsOnline   bool   `dynamodbav:"isOnline,omitempty" json:"isOnline,omitempty"`
	PushToken  string `dynamodbav:"pushToken,omitempty" json:"pushToken,omitempty"`
}

// HasLocation reports whether the profile carries a usable coordinate pair.
func (p *UserProfile) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
