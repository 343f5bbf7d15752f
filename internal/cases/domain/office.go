package domain

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

// Office is a managing office and the jurisdiction it belongs to.
type Office struct {
	Name         string
	Jurisdiction Jurisdiction
}

// OfficeDirectory is a precomputed lookup from office name to jurisdiction. It is built
// once and answers the "same jurisdiction or not" question for every transfer.
type OfficeDirectory struct {
	offices  map[string]Office
	prefixes map[Jurisdiction]string
}

// NewOfficeDirectory builds a directory from offices and the case reference prefix
// used for new cases in each jurisdiction. Office names are matched case-insensitively.
func NewOfficeDirectory(offices []Office, prefixes map[Jurisdiction]string) (*OfficeDirectory, error) {
	dir := &OfficeDirectory{
		offices:  make(map[string]Office, len(offices)),
		prefixes: make(map[Jurisdiction]string, len(prefixes)),
	}

	for jurisdiction, prefix := range prefixes {
		dir.prefixes[jurisdiction] = prefix
	}

	for _, office := range offices {
		if _, ok := dir.prefixes[office.Jurisdiction]; !ok {
			return nil, apperrors.Wrapf(ErrUnknownJurisdiction, "office %q", office.Name)
		}
		key := officeKey(office.Name)
		if existing, ok := dir.offices[key]; ok && existing.Jurisdiction != office.Jurisdiction {
			return nil, fmt.Errorf("office %q registered in %s and %s", office.Name,
				existing.Jurisdiction, office.Jurisdiction)
		}
		dir.offices[key] = office
	}

	return dir, nil
}

// DefaultOfficeDirectory returns the employment tribunal offices of England & Wales and
// Scotland.
func DefaultOfficeDirectory() *OfficeDirectory {
	englandWales := []string{
		"Bristol", "Leeds", "London Central", "London East", "London South", "Manchester",
		"Midlands East", "Midlands West", "Newcastle", "Wales", "Watford",
	}
	scotland := []string{"Glasgow", "Aberdeen", "Dundee", "Edinburgh"}

	offices := make([]Office, 0, len(englandWales)+len(scotland))
	for _, name := range englandWales {
		offices = append(offices, Office{Name: name, Jurisdiction: JurisdictionEnglandWales})
	}
	for _, name := range scotland {
		offices = append(offices, Office{Name: name, Jurisdiction: JurisdictionScotland})
	}

	dir, err := NewOfficeDirectory(offices, map[Jurisdiction]string{
		JurisdictionEnglandWales: "60",
		JurisdictionScotland:     "41",
	})
	if err != nil {
		panic(err)
	}
	return dir
}

// Lookup returns the office registered under name.
func (d *OfficeDirectory) Lookup(name string) (Office, error) {
	office, ok := d.offices[officeKey(name)]
	if !ok {
		return Office{}, apperrors.Wrapf(ErrUnknownOffice, "%q", name)
	}
	return office, nil
}

// SameJurisdiction reports whether office belongs to jurisdiction.
func (d *OfficeDirectory) SameJurisdiction(jurisdiction Jurisdiction, office string) (bool, error) {
	found, err := d.Lookup(office)
	if err != nil {
		return false, err
	}
	return found.Jurisdiction == jurisdiction, nil
}

// ReferencePrefix returns the prefix of case references issued in jurisdiction.
func (d *OfficeDirectory) ReferencePrefix(jurisdiction Jurisdiction) (string, error) {
	prefix, ok := d.prefixes[jurisdiction]
	if !ok {
		return "", apperrors.Wrapf(ErrUnknownJurisdiction, "%q", jurisdiction)
	}
	return prefix, nil
}

// Offices lists the registered office names in alphabetical order.
func (d *OfficeDirectory) Offices() []string {
	names := make([]string, 0, len(d.offices))
	for _, office := range d.offices {
		names = append(names, office.Name)
	}
	sort.Strings(names)
	return names
}

func officeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
