package store

import (
	"encoding/json"
	"fmt"
)

// Shape validators run against raw persisted payloads before the typed
// unmarshal. They deliberately check structure only — is it an array, does
// every element carry an id and a name — because a payload written by an
// older version of the app may lack newer fields and must still load.

func validateArrayShape(raw []byte, requireName bool) error {
	var elems []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return fmt.Errorf("not a JSON array of objects: %w", err)
	}
	for i, el := range elems {
		if _, ok := el["id"]; !ok {
			return fmt.Errorf("element %d missing id", i)
		}
		if requireName {
			if _, ok := el["name"]; !ok {
				return fmt.Errorf("element %d missing name", i)
			}
		}
	}
	return nil
}

func validateInventory(raw []byte) error {
	return validateArrayShape(raw, true)
}

func validateCustomers(raw []byte) error {
	return validateArrayShape(raw, true)
}

// Sales rows have no name requirement — walk-in sales carry no customer.
func validateSales(raw []byte) error {
	return validateArrayShape(raw, false)
}

func validLanguage(lang string) bool {
	switch lang {
	case "en", "ne", "hi":
		return true
	}
	return false
}
