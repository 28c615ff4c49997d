// internal/profile/models.go
// Profile documents live in the document store under users/{uid}.
// A profile is a tagged union: the "type" field selects which of the
// category-specific fields are meaningful.

package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Errors returned by the profile package
var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrMalformedProfile = errors.New("malformed profile document")
	ErrUnknownCategory  = errors.New("unknown profile category")
)

// Category discriminates the two sides of the market, plus back-office users
type Category string

const (
	CategoryApplicant Category = "applicant"
	CategoryCompany   Category = "company"
	CategoryAdmin     Category = "admin"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryApplicant, CategoryCompany, CategoryAdmin:
		return true
	}
	return false
}

// Opposite returns the category a user of category c swipes on.
// Admins have no feed, so Opposite returns an empty category for them.
func (c Category) Opposite() Category {
	switch c {
	case CategoryApplicant:
		return CategoryCompany
	case CategoryCompany:
		return CategoryApplicant
	}
	return ""
}

// Profile is a user document. Field names in the store follow the
// original document shape (camelCase keys).
type Profile struct {
	UID      string   `json:"uid"`
	Category Category `json:"type"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Age      int      `json:"age,omitempty"`
	Sex      string   `json:"sex,omitempty"`
	Bio      string   `json:"bio,omitempty"`

	ProfileImage string `json:"profileImage,omitempty"`
	BannerImage  string `json:"bannerImage,omitempty"`

	// Applicant fields
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	Address     string   `json:"address,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Work        []string `json:"work,omitempty"`
	Time        []string `json:"time,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Experience  string   `json:"experience,omitempty"`
	Certificate string   `json:"certificate,omitempty"`
	Training    string   `json:"training,omitempty"`

	// Company fields
	CompanyName    string `json:"companyName,omitempty"`
	HRFirstName    string `json:"hrFirstName,omitempty"`
	HRLastName     string `json:"hrLastName,omitempty"`
	CompanyAddress string `json:"companyAddress,omitempty"`
	Benefits       string `json:"benefits,omitempty"`
	Additional     string `json:"additional,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Validate checks category-specific required fields
func (p *Profile) Validate() error {
	if p.UID == "" {
		return fmt.Errorf("%w: missing uid", ErrMalformedProfile)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, p.Category)
	}
	switch p.Category {
	case CategoryApplicant:
		if p.FirstName == "" {
			return fmt.Errorf("%w: applicant missing firstName", ErrMalformedProfile)
		}
	case CategoryCompany:
		if p.CompanyName == "" {
			return fmt.Errorf("%w: company missing companyName", ErrMalformedProfile)
		}
	}
	return nil
}

// DisplayName derives the name shown in feeds, pending lists and matches.
// Raw uids never surface to users.
func (p *Profile) DisplayName() string {
	switch p.Category {
	case CategoryCompany:
		return p.CompanyName
	default:
		if p.LastName != "" {
			return strings.TrimSpace(p.FirstName + " " + p.LastName)
		}
		return p.FirstName
	}
}

// Location returns the address field for the profile's category
func (p *Profile) Location() string {
	if p.Category == CategoryCompany {
		return p.CompanyAddress
	}
	return p.Address
}

// ToDoc converts the profile to its store representation
func (p *Profile) ToDoc() map[string]interface{} {
	doc := map[string]interface{}{
		"type":  string(p.Category),
		"email": p.Email,
	}

	putString := func(key, val string) {
		if val != "" {
			doc[key] = val
		}
	}
	putSlice := func(key string, val []string) {
		if len(val) > 0 {
			doc[key] = val
		}
	}

	putString("phone", p.Phone)
	putString("sex", p.Sex)
	putString("bio", p.Bio)
	putString("profileImage", p.ProfileImage)
	putString("bannerImage", p.BannerImage)
	if p.Age > 0 {
		doc["age"] = p.Age
	}

	putString("firstName", p.FirstName)
	putString("lastName", p.LastName)
	putString("address", p.Address)
	putSlice("skills", p.Skills)
	putSlice("work", p.Work)
	putSlice("time", p.Time)
	putSlice("roles", p.Roles)
	putString("experience", p.Experience)
	putString("certificate", p.Certificate)
	putString("training", p.Training)

	putString("companyName", p.CompanyName)
	putString("hrFirstName", p.HRFirstName)
	putString("hrLastName", p.HRLastName)
	putString("companyAddress", p.CompanyAddress)
	putString("benefits", p.Benefits)
	putString("additional", p.Additional)

	if !p.CreatedAt.IsZero() {
		doc["createdAt"] = p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		doc["updatedAt"] = p.UpdatedAt
	}

	return doc
}

// FromDoc decodes a store document into a Profile.
// Fails loudly so malformed documents surface here, not deep in match logic.
func FromDoc(uid string, data map[string]interface{}) (*Profile, error) {
	category := Category(getString(data, "type"))
	if !category.Valid() {
		return nil, fmt.Errorf("%w: user %s has type %q", ErrUnknownCategory, uid, getString(data, "type"))
	}

	p := &Profile{
		UID:      uid,
		Category: category,
		Email:    getString(data, "email"),
		Phone:    getString(data, "phone"),
		Age:      getInt(data, "age"),
		Sex:      getString(data, "sex"),
		Bio:      getString(data, "bio"),

		ProfileImage: getString(data, "profileImage"),
		BannerImage:  getString(data, "bannerImage"),

		FirstName:   getString(data, "firstName"),
		LastName:    getString(data, "lastName"),
		Address:     getString(data, "address"),
		Skills:      getStringSlice(data, "skills"),
		Work:        getStringSlice(data, "work"),
		Time:        getStringSlice(data, "time"),
		Roles:       getStringSlice(data, "roles"),
		Experience:  getString(data, "experience"),
		Certificate: getString(data, "certificate"),
		Training:    getString(data, "training"),

		CompanyName:    getString(data, "companyName"),
		HRFirstName:    getString(data, "hrFirstName"),
		HRLastName:     getString(data, "hrLastName"),
		CompanyAddress: getString(data, "companyAddress"),
		Benefits:       getString(data, "benefits"),
		Additional:     getString(data, "additional"),

		CreatedAt: getTime(data, "createdAt"),
		UpdatedAt: getTime(data, "updatedAt"),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Decode helpers tolerate the loose typing of store documents

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func getInt(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}

func getStringSlice(data map[string]interface{}, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// UpdateProfileRequest carries a partial profile update. Nil pointers mean
// "leave unchanged", matching the partial-merge semantics of the store.
type UpdateProfileRequest struct {
	Phone *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Age   *int    `json:"age,omitempty" validate:"omitempty,gte=16,lte=100"`
	Sex   *string `json:"sex,omitempty"`
	Bio   *string `json:"bio,omitempty" validate:"omitempty,max=1000"`

	FirstName   *string   `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string   `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Address     *string   `json:"address,omitempty" validate:"omitempty,max=255"`
	Skills      *[]string `json:"skills,omitempty"`
	Work        *[]string `json:"work,omitempty"`
	Time        *[]string `json:"time,omitempty"`
	Roles       *[]string `json:"roles,omitempty"`
	Experience  *string   `json:"experience,omitempty"`
	Certificate *string   `json:"certificate,omitempty"`
	Training    *string   `json:"training,omitempty"`

	CompanyName    *string `json:"companyName,omitempty" validate:"omitempty,min=1,max=100"`
	HRFirstName    *string `json:"hrFirstName,omitempty" validate:"omitempty,max=100"`
	HRLastName     *string `json:"hrLastName,omitempty" validate:"omitempty,max=100"`
	CompanyAddress *string `json:"companyAddress,omitempty" validate:"omitempty,max=255"`
	Benefits       *string `json:"benefits,omitempty"`
	Additional     *string `json:"additional,omitempty"`
}

// Fields converts the request to the store's partial-merge shape
func (r *UpdateProfileRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})

	put := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	putSlice := func(key string, v *[]string) {
		if v != nil {
			fields[key] = *v
		}
	}

	put("phone", r.Phone)
	put("sex", r.Sex)
	put("bio", r.Bio)
	if r.Age != nil {
		fields["age"] = *r.Age
	}

	put("firstName", r.FirstName)
	put("lastName", r.LastName)
	put("address", r.Address)
	putSlice("skills", r.Skills)
	putSlice("work", r.Work)
	putSlice("time", r.Time)
	putSlice("roles", r.Roles)
	put("experience", r.Experience)
	put("certificate", r.Certificate)
	put("training", r.Training)

	put("companyName", r.CompanyName)
	put("hrFirstName", r.HRFirstName)
	put("hrLastName", r.HRLastName)
	put("companyAddress", r.CompanyAddress)
	put("benefits", r.Benefits)
	put("additional", r.Additional)

	return fields
}
