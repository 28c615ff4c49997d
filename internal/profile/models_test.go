// internal/profile/models_test.go

package profile

import (
	"errors"
	"reflect"
	"testing"
)

func TestCategory_Opposite(t *testing.T) {
	tests := []struct {
		category Category
		want     Category
	}{
		{CategoryApplicant, CategoryCompany},
		{CategoryCompany, CategoryApplicant},
		{CategoryAdmin, ""},
	}

	for _, tt := range tests {
		if got := tt.category.Opposite(); got != tt.want {
			t.Errorf("Opposite(%s) = %s, want %s", tt.category, got, tt.want)
		}
	}
}

func TestProfile_DisplayName(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    string
	}{
		{
			name:    "applicant with last name",
			profile: Profile{Category: CategoryApplicant, FirstName: "Ada", LastName: "Lovelace"},
			want:    "Ada Lovelace",
		},
		{
			name:    "applicant without last name",
			profile: Profile{Category: CategoryApplicant, FirstName: "Ada"},
			want:    "Ada",
		},
		{
			name:    "company uses company name",
			profile: Profile{Category: CategoryCompany, CompanyName: "Acme Corp", HRFirstName: "Grace"},
			want:    "Acme Corp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProfile_DocRoundTrip_Applicant(t *testing.T) {
	p := &Profile{
		UID:       "u1",
		Category:  CategoryApplicant,
		Email:     "ada@example.com",
		Age:       24,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Address:   "London",
		Skills:    []string{"Go", "SQL"},
		Work:      []string{"remote"},
	}

	got, err := FromDoc("u1", p.ToDoc())
	if err != nil {
		t.Fatalf("FromDoc: %v", err)
	}

	if got.Category != CategoryApplicant {
		t.Errorf("category = %s", got.Category)
	}
	if got.FirstName != "Ada" || got.LastName != "Lovelace" {
		t.Errorf("name fields lost: %+v", got)
	}
	if !reflect.DeepEqual(got.Skills, []string{"Go", "SQL"}) {
		t.Errorf("skills = %v", got.Skills)
	}
	if got.Age != 24 {
		t.Errorf("age = %d", got.Age)
	}
}

func TestProfile_DocRoundTrip_Company(t *testing.T) {
	p := &Profile{
		UID:            "c1",
		Category:       CategoryCompany,
		Email:          "hr@acme.com",
		CompanyName:    "Acme Corp",
		HRFirstName:    "Grace",
		HRLastName:     "Hopper",
		CompanyAddress: "New York",
		Benefits:       "Health insurance",
	}

	got, err := FromDoc("c1", p.ToDoc())
	if err != nil {
		t.Fatalf("FromDoc: %v", err)
	}

	if got.CompanyName != "Acme Corp" || got.CompanyAddress != "New York" {
		t.Errorf("company fields lost: %+v", got)
	}
	if got.Location() != "New York" {
		t.Errorf("Location() = %q", got.Location())
	}
}

func TestFromDoc_MalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		data map[string]interface{}
		want error
	}{
		{
			name: "missing type",
			data: map[string]interface{}{"email": "x@example.com"},
			want: ErrUnknownCategory,
		},
		{
			name: "unknown type",
			data: map[string]interface{}{"type": "robot"},
			want: ErrUnknownCategory,
		},
		{
			name: "applicant without first name",
			data: map[string]interface{}{"type": "applicant", "email": "x@example.com"},
			want: ErrMalformedProfile,
		},
		{
			name: "company without company name",
			data: map[string]interface{}{"type": "company", "email": "x@example.com"},
			want: ErrMalformedProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDoc("u1", tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("FromDoc() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFromDoc_StoreTypedSlices(t *testing.T) {
	// The store hands back []interface{} for arrays
	data := map[string]interface{}{
		"type":      "applicant",
		"firstName": "Ada",
		"skills":    []interface{}{"Go", "SQL"},
	}

	p, err := FromDoc("u1", data)
	if err != nil {
		t.Fatalf("FromDoc: %v", err)
	}
	if !reflect.DeepEqual(p.Skills, []string{"Go", "SQL"}) {
		t.Errorf("skills = %v", p.Skills)
	}
}

func TestUpdateProfileRequest_Fields(t *testing.T) {
	bio := "Hello"
	age := 30
	skills := []string{"Go"}

	req := UpdateProfileRequest{
		Bio:    &bio,
		Age:    &age,
		Skills: &skills,
	}

	fields := req.Fields()
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d: %v", len(fields), fields)
	}
	if fields["bio"] != "Hello" || fields["age"] != 30 {
		t.Errorf("unexpected fields: %v", fields)
	}

	empty := UpdateProfileRequest{}
	if len(empty.Fields()) != 0 {
		t.Errorf("empty request produced fields: %v", empty.Fields())
	}
}
