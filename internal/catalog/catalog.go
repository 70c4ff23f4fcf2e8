package catalog

import "errors"

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrRestaurantExists   = errors.New("restaurant already exists")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
	ErrProfileReserved    = errors.New("profile id is reserved")
)

// Catalog is the whole persisted document. Mutations operate on an in-memory
// copy; persistence happens through a single compare-and-swap write, so every
// transition here is all-or-nothing with that write.
type Catalog struct {
	Profiles    []Profile    `json:"profiles,omitempty"`
	Restaurants []Restaurant `json:"restaurants"`
}

// Normalize replaces nil slices that later transitions rely on. Adapters call
// it right after decoding a stored document. A nil Profiles collection is
// kept as-is: "not created yet" is a meaningful state.
func (c *Catalog) Normalize() {
	if c.Restaurants == nil {
		c.Restaurants = []Restaurant{}
	}
	for i := range c.Restaurants {
		if c.Restaurants[i].Profiles == nil {
			c.Restaurants[i].Profiles = []string{}
		}
	}
}

// AddRestaurant appends a record, rejecting duplicate ids.
func (c *Catalog) AddRestaurant(r Restaurant) error {
	if c.findRestaurantIndex(r.ID.String()) >= 0 {
		return ErrRestaurantExists
	}
	c.Restaurants = append(c.Restaurants, r.normalized())
	return nil
}

// ReplaceRestaurant swaps the whole record in place, preserving its position.
func (c *Catalog) ReplaceRestaurant(r Restaurant) error {
	index := c.findRestaurantIndex(r.ID.String())
	if index < 0 {
		return ErrRestaurantNotFound
	}
	c.Restaurants[index] = r.normalized()
	return nil
}

// RemoveRestaurant deletes the record with the given id and returns it.
func (c *Catalog) RemoveRestaurant(id string) (Restaurant, error) {
	index := c.findRestaurantIndex(id)
	if index < 0 {
		return Restaurant{}, ErrRestaurantNotFound
	}
	removed := c.Restaurants[index]
	c.Restaurants = append(c.Restaurants[:index], c.Restaurants[index+1:]...)
	return removed, nil
}

// AddProfile appends a profile. The first profile ever added also creates the
// collection, seeded with the reserved entry.
func (c *Catalog) AddProfile(p Profile) error {
	if p.ID == ReservedProfileID {
		return ErrProfileReserved
	}
	if c.Profiles == nil {
		c.Profiles = []Profile{NewReservedProfile()}
	}
	if c.findProfileIndex(p.ID) >= 0 {
		return ErrProfileExists
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// RenameProfile updates only the display name of an existing profile.
func (c *Catalog) RenameProfile(id, name string) (Profile, error) {
	if id == ReservedProfileID {
		return Profile{}, ErrProfileReserved
	}
	index := c.findProfileIndex(id)
	if index < 0 {
		return Profile{}, ErrProfileNotFound
	}
	c.Profiles[index].Name = name
	return c.Profiles[index], nil
}

// RemoveProfile deletes a profile and strips its id from every restaurant's
// profiles list in the same in-memory document.
func (c *Catalog) RemoveProfile(id string) (Profile, error) {
	if id == ReservedProfileID {
		return Profile{}, ErrProfileReserved
	}
	index := c.findProfileIndex(id)
	if index < 0 {
		return Profile{}, ErrProfileNotFound
	}
	removed := c.Profiles[index]
	c.Profiles = append(c.Profiles[:index], c.Profiles[index+1:]...)
	for i := range c.Restaurants {
		c.Restaurants[i].Profiles = removeString(c.Restaurants[i].Profiles, id)
	}
	return removed, nil
}

func (c *Catalog) findRestaurantIndex(id string) int {
	for i := range c.Restaurants {
		if c.Restaurants[i].ID.String() == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) findProfileIndex(id string) int {
	for i := range c.Profiles {
		if c.Profiles[i].ID == id {
			return i
		}
	}
	return -1
}

func removeString(values []string, target string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value != target {
			result = append(result, value)
		}
	}
	return result
}
