package domain

const (
	// PreferencesCategory is the first segment of every preference namespace.
	PreferencesCategory = "travel_memory"
	// PreferencesKey is the fixed key of a user's preference record.
	PreferencesKey = "travel_prefs"
)

// TravelPreferences is the accumulated travel profile of a single user.
type TravelPreferences struct {
	PreferredAccommodationTypes []string `json:"preferred_accommodation_types"`
	DietaryRestrictions         []string `json:"dietary_restrictions"`
	BudgetRange                 string   `json:"budget_range"`
	VisitedDestinations         []string `json:"visited_destinations"`
	TravelStyle                 string   `json:"travel_style"`
}

// Normalized returns a copy with nil lists replaced by empty ones so the
// record always serializes with every key present.
func (p TravelPreferences) Normalized() TravelPreferences {
	out := p
	out.PreferredAccommodationTypes = nonNil(p.PreferredAccommodationTypes)
	out.DietaryRestrictions = nonNil(p.DietaryRestrictions)
	out.VisitedDestinations = nonNil(p.VisitedDestinations)
	return out
}

// Namespace scopes stored records as (category, user identifier).
type Namespace struct {
	Category string
	UserID   string
}

// PreferencesNamespace returns the namespace holding userID's preferences.
func PreferencesNamespace(userID string) Namespace {
	return Namespace{Category: PreferencesCategory, UserID: userID}
}

// StoredPreferences is a preference record that may be absent.
// The zero value is absent.
type StoredPreferences struct {
	value   TravelPreferences
	present bool
}

// SomePreferences wraps an existing record.
func SomePreferences(p TravelPreferences) StoredPreferences {
	return StoredPreferences{value: p, present: true}
}

// NoPreferences returns the absent record.
func NoPreferences() StoredPreferences {
	return StoredPreferences{}
}

func (s StoredPreferences) Present() bool { return s.present }

// Value returns the record and whether it exists.
func (s StoredPreferences) Value() (TravelPreferences, bool) {
	return s.value, s.present
}

func (s StoredPreferences) TravelStyle() string { return s.value.TravelStyle }
func (s StoredPreferences) BudgetRange() string { return s.value.BudgetRange }
func (s StoredPreferences) DietaryRestrictions() []string { return nonNil(s.value.DietaryRestrictions) }
func (s StoredPreferences) VisitedDestinations() []string { return nonNil(s.value.VisitedDestinations) }
func (s StoredPreferences) AccommodationTypes() []string {
	return nonNil(s.value.PreferredAccommodationTypes)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
