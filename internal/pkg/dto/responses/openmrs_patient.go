package responses

import "strings"

type Patient struct {
	UUID        string              `json:"uuid"`
	Display     string              `json:"display,omitempty"`
	Identifiers []PatientIdentifier `json:"identifiers,omitempty"`
	Person      Person              `json:"person"`
}

type PatientIdentifier struct {
	UUID           string      `json:"uuid,omitempty"`
	Identifier     string      `json:"identifier"`
	IdentifierType ResourceRef `json:"identifierType"`
	Location       ResourceRef `json:"location"`
	Preferred      bool        `json:"preferred"`
	Display        string      `json:"display,omitempty"`
}

type Person struct {
	UUID               string       `json:"uuid,omitempty"`
	Display            string       `json:"display,omitempty"`
	Gender             string       `json:"gender"`
	Birthdate          string       `json:"birthdate"`
	BirthdateEstimated bool         `json:"birthdateEstimated"`
	Dead               bool         `json:"dead"`
	Names              []PersonName `json:"names,omitempty"`
}

type PersonName struct {
	GivenName  string `json:"givenName"`
	MiddleName string `json:"middleName,omitempty"`
	FamilyName string `json:"familyName"`
	Preferred  bool   `json:"preferred"`
}

// FullName is the name the billing UI renders for the patient. OpenMRS sends
// it as person.display; a minimal representation only carries the names.
func (p Patient) FullName() string {
	if p.Person.Display != "" {
		return p.Person.Display
	}
	for _, name := range p.Person.Names {
		parts := []string{name.GivenName, name.MiddleName, name.FamilyName}
		nonEmpty := make([]string, 0, len(parts))
		for _, part := range parts {
			if part != "" {
				nonEmpty = append(nonEmpty, part)
			}
		}
		if len(nonEmpty) > 0 {
			return strings.Join(nonEmpty, " ")
		}
	}
	return p.Display
}
