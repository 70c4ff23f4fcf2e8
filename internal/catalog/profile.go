package catalog

// ReservedProfileID is the implicit "no filter" profile. It is inserted when
// the profiles collection is first initialized and can never be created,
// renamed, or deleted through the API.
const ReservedProfileID = "all"

const reservedProfileName = "All Restaurants"

// Profile is a named filter over the restaurant collection.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewReservedProfile returns the canonical reserved entry.
func NewReservedProfile() Profile {
	return Profile{ID: ReservedProfileID, Name: reservedProfileName}
}
